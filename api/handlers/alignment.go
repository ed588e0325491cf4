package handlers

import (
	"net/http"

	"github.com/aria-lang/bioflow-align/internal/stats"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
)

const (
	// DefaultMaxCells bounds the traceback of a single request.
	DefaultMaxCells int64 = 100_000_000
	// maxBatchTargets bounds the number of targets in one batch request.
	maxBatchTargets = 1000
)

// Alignment serves the alignment endpoints. Scores are the defaults for
// requests that carry no scores object.
type Alignment struct {
	Scores   bioflow.ScoreConfig
	MaxCells int64
	Workers  int
}

// NewAlignment returns alignment handlers using scores as the request
// defaults.
func NewAlignment(scores bioflow.ScoreConfig) *Alignment {
	return &Alignment{Scores: scores, MaxCells: DefaultMaxCells}
}

// AlignmentRequest represents an alignment request. Fields present in
// scores override the server defaults.
type AlignmentRequest struct {
	Sequence1 string               `json:"sequence1"`
	Sequence2 string               `json:"sequence2"`
	Scores    *bioflow.ScoreConfig `json:"scores,omitempty"`
	Global    bool                 `json:"global,omitempty"`
}

// AlignmentResponse represents the response for alignment.
type AlignmentResponse struct {
	Type        string  `json:"type"`
	AlignedSeq1 string  `json:"aligned_seq1"`
	AlignedSeq2 string  `json:"aligned_seq2"`
	Score       int     `json:"score"`
	Identity    float64 `json:"identity"`
	CIGAR       string  `json:"cigar"`
	Start1      int     `json:"start1"`
	End1        int     `json:"end1"`
	Start2      int     `json:"start2"`
	End2        int     `json:"end2"`
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
	GapOpenings int     `json:"gap_openings"`
}

func newAlignmentResponse(a *bioflow.Alignment) AlignmentResponse {
	return AlignmentResponse{
		Type:        a.AlignmentType.String(),
		AlignedSeq1: a.AlignedSeq1,
		AlignedSeq2: a.AlignedSeq2,
		Score:       a.Score,
		Identity:    a.Identity,
		CIGAR:       a.ToCIGAR(),
		Start1:      a.Start1,
		End1:        a.End1,
		Start2:      a.Start2,
		End2:        a.End2,
		Matches:     a.MatchCount(),
		Mismatches:  a.MismatchCount(),
		Gaps:        a.TotalGaps(),
		GapOpenings: a.GapOpenings(),
	}
}

// defaults returns a copy of the handler scores that a request body may
// overwrite.
func (h *Alignment) defaults() bioflow.ScoreConfig {
	sc := h.Scores
	if sc.Band != nil {
		band := *sc.Band
		sc.Band = &band
	}
	return sc
}

// request decodes the body into req, seeding its scores with the handler
// defaults, and parses both sequences.
func (h *Alignment) request(w http.ResponseWriter, r *http.Request, req *AlignmentRequest) (*bioflow.Sequence, *bioflow.Sequence, bool) {
	sc := h.defaults()
	req.Scores = &sc
	if !decode(w, r, req) {
		return nil, nil, false
	}
	if req.Scores == nil {
		req.Scores = &sc
	}

	seq1, err := bioflow.NewSequence(req.Sequence1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence1: %v", err)
		return nil, nil, false
	}
	seq2, err := bioflow.NewSequence(req.Sequence2)
	if err != nil {
		writeError(w, http.StatusBadRequest, "sequence2: %v", err)
		return nil, nil, false
	}
	return seq1, seq2, true
}

func (h *Alignment) align(w http.ResponseWriter, r *http.Request, alignType bioflow.AlignmentType, banded bool) (*bioflow.Alignment, bool) {
	var req AlignmentRequest
	seq1, seq2, ok := h.request(w, r, &req)
	if !ok {
		return nil, false
	}

	sc := *req.Scores
	switch {
	case alignType == bioflow.Global:
		sc.Band = nil
	case banded && sc.Band == nil:
		sc.Band = bioflow.DefaultBand()
	case !banded:
		sc.Band = nil
	}

	a, err := bioflow.AlignWithLimit(seq1, seq2, alignType, sc, h.MaxCells)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return nil, false
	}
	return a, true
}

// Local handles local alignment requests.
func (h *Alignment) Local(w http.ResponseWriter, r *http.Request) {
	if a, ok := h.align(w, r, bioflow.Local, false); ok {
		writeJSON(w, newAlignmentResponse(a))
	}
}

// Global handles global alignment requests.
func (h *Alignment) Global(w http.ResponseWriter, r *http.Request) {
	if a, ok := h.align(w, r, bioflow.Global, false); ok {
		writeJSON(w, newAlignmentResponse(a))
	}
}

// Banded handles banded local alignment requests. Requests without a band
// in their scores use the default band.
func (h *Alignment) Banded(w http.ResponseWriter, r *http.Request) {
	if a, ok := h.align(w, r, bioflow.Local, true); ok {
		writeJSON(w, newAlignmentResponse(a))
	}
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// Score handles alignment score requests. The alignment is local unless the
// request sets global.
func (h *Alignment) Score(w http.ResponseWriter, r *http.Request) {
	var req AlignmentRequest
	seq1, seq2, ok := h.request(w, r, &req)
	if !ok {
		return
	}

	alignType := bioflow.Local
	if req.Global {
		alignType = bioflow.Global
		req.Scores.Band = nil
	}
	a, err := bioflow.AlignWithLimit(seq1, seq2, alignType, *req.Scores, h.MaxCells)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	writeJSON(w, ScoreResponse{Score: a.Score})
}

// AnchorsRequest asks for exact-match anchors of at least MinLength bases.
type AnchorsRequest struct {
	AlignmentRequest
	MinLength int `json:"min_length"`
}

// AnchorsResponse reports the outermost qualifying exact runs.
type AnchorsResponse struct {
	Found        bool              `json:"found"`
	ProbeStart5  int               `json:"probe_start5"`
	TargetStart5 int               `json:"target_start5"`
	ProbeEnd3    int               `json:"probe_end3"`
	TargetEnd3   int               `json:"target_end3"`
	Alignment    AlignmentResponse `json:"alignment"`
}

// Anchors handles anchor requests.
func (h *Alignment) Anchors(w http.ResponseWriter, r *http.Request) {
	req := AnchorsRequest{MinLength: 1}
	seq1, seq2, ok := h.request(w, r, &req.AlignmentRequest)
	if !ok {
		return
	}

	if cells := int64(seq1.Len()) * int64(seq2.Len()); req.Scores.Band == nil && h.MaxCells > 0 && cells > h.MaxCells {
		writeError(w, http.StatusBadRequest, "%d cells exceeds limit of %d", cells, h.MaxCells)
		return
	}

	a, anchors, found, err := bioflow.FindAnchors(seq1, seq2, *req.Scores, req.MinLength)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	writeJSON(w, AnchorsResponse{
		Found:        found,
		ProbeStart5:  anchors.ProbeStart5,
		TargetStart5: anchors.TargetStart5,
		ProbeEnd3:    anchors.ProbeEnd3,
		TargetEnd3:   anchors.TargetEnd3,
		Alignment:    newAlignmentResponse(a),
	})
}

// BatchRequest aligns one query against many targets.
type BatchRequest struct {
	Query   string               `json:"query"`
	Targets []string             `json:"targets"`
	Scores  *bioflow.ScoreConfig `json:"scores,omitempty"`
	Global  bool                 `json:"global,omitempty"`
}

// BatchResponse holds per-target results in request order plus a summary.
type BatchResponse struct {
	Results   []AlignmentResponse      `json:"results"`
	BestIndex int                      `json:"best_index"`
	Summary   *stats.AlignmentSetStats `json:"summary"`
}

// Batch handles batch alignment requests.
func (h *Alignment) Batch(w http.ResponseWriter, r *http.Request) {
	sc := h.defaults()
	req := BatchRequest{Scores: &sc}
	if !decode(w, r, &req) {
		return
	}
	if req.Scores == nil {
		req.Scores = &sc
	}

	if len(req.Targets) == 0 {
		writeError(w, http.StatusBadRequest, "targets cannot be empty")
		return
	}
	if len(req.Targets) > maxBatchTargets {
		writeError(w, http.StatusBadRequest, "at most %d targets per request", maxBatchTargets)
		return
	}

	query, err := bioflow.NewSequence(req.Query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "query: %v", err)
		return
	}
	pairs := make([]bioflow.Pair, len(req.Targets))
	for i, t := range req.Targets {
		target, err := bioflow.NewSequence(t)
		if err != nil {
			writeError(w, http.StatusBadRequest, "targets[%d]: %v", i, err)
			return
		}
		pairs[i] = bioflow.Pair{Probe: query, Target: target}
	}

	opts := bioflow.BatchOptions{Type: bioflow.Local, Scores: req.Scores, Workers: h.Workers, MaxCells: h.MaxCells}
	if req.Global {
		opts.Type = bioflow.Global
		req.Scores.Band = nil
	}

	results, err := bioflow.AlignBatch(r.Context(), pairs, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	summary, err := bioflow.AlignmentSetStats(results)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}

	resp := BatchResponse{Results: make([]AlignmentResponse, len(results)), Summary: summary}
	for i, a := range results {
		resp.Results[i] = newAlignmentResponse(a)
		if a.Score > results[resp.BestIndex].Score {
			resp.BestIndex = i
		}
	}
	writeJSON(w, resp)
}
