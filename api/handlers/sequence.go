// Package handlers provides HTTP handlers for the bioflow-align API.
package handlers

import (
	"net/http"

	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

// SequenceRequest represents a request with a sequence.
type SequenceRequest struct {
	Sequence string `json:"sequence"`
}

// ValidateResponse represents validation result.
type ValidateResponse struct {
	Valid     bool   `json:"valid"`
	Length    int    `json:"length,omitempty"`
	Ambiguous int    `json:"ambiguous,omitempty"`
	Masked    int    `json:"masked,omitempty"`
	Message   string `json:"message,omitempty"`
}

// ValidateHandler handles sequence validation requests. An invalid sequence
// is a successful request with valid set to false.
func ValidateHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	seq, err := bioflow.NewSequence(req.Sequence)
	if err != nil {
		writeJSON(w, ValidateResponse{Valid: false, Message: err.Error()})
		return
	}

	writeJSON(w, ValidateResponse{
		Valid:     true,
		Length:    seq.Len(),
		Ambiguous: seq.CountAmbiguous(),
		Masked:    seq.CountMasked(),
	})
}

// ComplementResponse represents the response for complement.
type ComplementResponse struct {
	Complement string `json:"complement"`
}

// ComplementHandler handles complement requests.
func ComplementHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	seq, err := bioflow.NewSequence(req.Sequence)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	writeJSON(w, ComplementResponse{Complement: seq.Complement().Bases})
}

// ReverseComplementResponse represents the response for reverse complement.
type ReverseComplementResponse struct {
	ReverseComplement string `json:"reverse_complement"`
}

// ReverseComplementHandler handles reverse complement requests. Masking is
// carried through to the result.
func ReverseComplementHandler(w http.ResponseWriter, r *http.Request) {
	var req SequenceRequest
	if !decode(w, r, &req) {
		return
	}

	seq, err := bioflow.NewSequence(req.Sequence)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	writeJSON(w, ReverseComplementResponse{ReverseComplement: seq.ReverseComplement().Bases})
}
