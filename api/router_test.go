package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aria-lang/bioflow-align/api/handlers"
	"github.com/aria-lang/bioflow-align/pkg/bioflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	r := NewRouter(Options{Quiet: true})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestAlignmentEndpoints(t *testing.T) {
	r := NewRouter(Options{Quiet: true})
	gattaca := strings.Repeat("GATTACA", 6)

	tests := []struct {
		name     string
		path     string
		body     string
		score    int
		cigar    string
		aligned2 string
	}{
		{
			name:     "local",
			path:     "/api/alignment/local",
			body:     `{"sequence1": "ACGTACGT", "sequence2": "ACGTACGT"}`,
			score:    8,
			cigar:    "8=",
			aligned2: "ACGTACGT",
		},
		{
			name:     "global",
			path:     "/api/alignment/global",
			body:     `{"sequence1": "ACGT", "sequence2": "AGT"}`,
			score:    0,
			cigar:    "1=1I2=",
			aligned2: "A-GT",
		},
		{
			name:     "global with partial scores",
			path:     "/api/alignment/global",
			body:     `{"sequence1": "ACGT", "sequence2": "ACAT", "scores": {"match": 2}}`,
			score:    5,
			cigar:    "2=1X1=",
			aligned2: "ACAT",
		},
		{
			name:     "banded",
			path:     "/api/alignment/banded",
			body:     `{"sequence1": "` + gattaca + `", "sequence2": "` + gattaca + `"}`,
			score:    42,
			cigar:    "42=",
			aligned2: gattaca,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, r, tt.path, tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp handlers.AlignmentResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.score, resp.Score)
			assert.Equal(t, tt.cigar, resp.CIGAR)
			assert.Equal(t, tt.aligned2, resp.AlignedSeq2)
		})
	}
}

func TestScoreEndpoint(t *testing.T) {
	r := NewRouter(Options{Quiet: true})

	rec := post(t, r, "/api/alignment/score", `{"sequence1": "ACGT", "sequence2": "ACAT", "global": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.ScoreResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 2, resp.Score)
}

func TestAnchorsEndpoint(t *testing.T) {
	r := NewRouter(Options{Quiet: true})
	body := `{"sequence1": "ACGAT", "sequence2": "ACGT", "min_length": 3,
		"scores": {"match": 5, "mismatch": -4, "gap_open": -1, "gap_extn": -1, "delayed_gap_extension": 1}}`

	rec := post(t, r, "/api/alignment/anchors", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.AnchorsResponse
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Found)
	assert.Equal(t, 0, resp.ProbeStart5)
	assert.Equal(t, 2, resp.ProbeEnd3)
	assert.Equal(t, 2, resp.TargetEnd3)
	assert.Equal(t, 18, resp.Alignment.Score)
}

func TestBatchEndpoint(t *testing.T) {
	r := NewRouter(Options{Quiet: true})

	rec := post(t, r, "/api/alignment/batch", `{"query": "ACGTACGT", "targets": ["ACGT", "ACGTACGT", "NNNN"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp handlers.BatchResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 4, resp.Results[0].Score)
	assert.Equal(t, 8, resp.Results[1].Score)
	assert.Equal(t, 0, resp.Results[2].Score)
	assert.Equal(t, 1, resp.BestIndex)
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 3, resp.Summary.Count)
	assert.Equal(t, 1, resp.Summary.NoHits)
}

func TestAlignmentErrors(t *testing.T) {
	r := NewRouter(Options{Quiet: true})

	tests := []struct {
		name    string
		path    string
		body    string
		message string
	}{
		{"malformed body", "/api/alignment/local", `{"sequence1":`, "invalid request body"},
		{"bad probe", "/api/alignment/local", `{"sequence1": "ACXT", "sequence2": "ACGT"}`, "sequence1:"},
		{"bad target", "/api/alignment/global", `{"sequence1": "ACGT", "sequence2": ""}`, "sequence2:"},
		{"bad scores", "/api/alignment/local", `{"sequence1": "ACGT", "sequence2": "ACGT", "scores": {"match": 0}}`, "match=0"},
		{"bad band", "/api/alignment/banded", `{"sequence1": "ACGT", "sequence2": "ACGT", "scores": {"band": {"initial_half_width": 1, "max_path_len_diff": 0.1}}}`, "initial_half_width"},
		{"bad anchor length", "/api/alignment/anchors", `{"sequence1": "ACGT", "sequence2": "ACGT", "min_length": -1}`, "min_anchor_len"},
		{"empty batch", "/api/alignment/batch", `{"query": "ACGT", "targets": []}`, "targets cannot be empty"},
		{"bad batch target", "/api/alignment/batch", `{"query": "ACGT", "targets": ["ACGT", "XX"]}`, "targets[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, r, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp handlers.ErrorResponse
			decodeBody(t, rec, &resp)
			assert.Contains(t, resp.Error, tt.message)
		})
	}
}

func TestCellLimit(t *testing.T) {
	align := handlers.NewAlignment(bioflow.DefaultScores())
	align.MaxCells = 10
	r := NewRouter(Options{Alignment: align, Quiet: true})

	rec := post(t, r, "/api/alignment/local", `{"sequence1": "ACGTACGT", "sequence2": "ACGTACGT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, r, "/api/alignment/anchors", `{"sequence1": "ACGTACGT", "sequence2": "ACGTACGT"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, r, "/api/alignment/local", `{"sequence1": "ACG", "sequence2": "ACG"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaultsAreNotShared(t *testing.T) {
	sc := bioflow.DefaultScores()
	sc.Band = bioflow.DefaultBand()
	align := handlers.NewAlignment(sc)
	r := NewRouter(Options{Alignment: align, Quiet: true})

	body := `{"sequence1": "ACGT", "sequence2": "ACGT", "scores": {"band": {"initial_half_width": 30}}}`
	rec := post(t, r, "/api/alignment/banded", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 20, align.Scores.Band.InitialHalfWidth)
}

func TestSequenceEndpoints(t *testing.T) {
	r := NewRouter(Options{Quiet: true})

	t.Run("validate", func(t *testing.T) {
		rec := post(t, r, "/api/sequence/validate", `{"sequence": "ACGTn"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ValidateResponse
		decodeBody(t, rec, &resp)
		assert.True(t, resp.Valid)
		assert.Equal(t, 5, resp.Length)
		assert.Equal(t, 1, resp.Ambiguous)
		assert.Equal(t, 1, resp.Masked)
	})

	t.Run("validate invalid", func(t *testing.T) {
		rec := post(t, r, "/api/sequence/validate", `{"sequence": "ACXT"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ValidateResponse
		decodeBody(t, rec, &resp)
		assert.False(t, resp.Valid)
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("reverse complement keeps masking", func(t *testing.T) {
		rec := post(t, r, "/api/sequence/reverse-complement", `{"sequence": "AACg"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ReverseComplementResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "cGTT", resp.ReverseComplement)
	})

	t.Run("complement", func(t *testing.T) {
		rec := post(t, r, "/api/sequence/complement", `{"sequence": "ACGT"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp handlers.ComplementResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, "TGCA", resp.Complement)
	})

	t.Run("complement invalid", func(t *testing.T) {
		rec := post(t, r, "/api/sequence/complement", `{"sequence": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestNotFound(t *testing.T) {
	r := NewRouter(Options{Quiet: true})
	rec := post(t, r, "/api/kmer/count", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alignment/local", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
