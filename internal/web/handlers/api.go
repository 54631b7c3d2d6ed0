package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/lville-gis/internal/batch"
	"github.com/lville-gis/internal/lexicon"
	"github.com/lville-gis/internal/normalize"
)

// Config represents the web server configuration (simplified)
type Config struct {
	Features struct {
		BatchEnabled bool `json:"batch_enabled"`
	} `json:"features"`
	MaxBatch int `json:"max_batch"`
}

// AddressHandler serves composition and decomposition
type AddressHandler struct {
	Lexicon   *lexicon.Lexicon
	Processor *batch.Processor
	Config    *Config
}

// DecomposeRequest is the body of POST /api/decompose
type DecomposeRequest struct {
	Address string `json:"address"`
}

// BatchDecomposeRequest is the body of POST /api/decompose/batch
type BatchDecomposeRequest struct {
	Addresses []string `json:"addresses"`
}

// BatchDecomposeResponse lists results in request order
type BatchDecomposeResponse struct {
	Count   int                           `json:"count"`
	Results []normalize.AddressComponents `json:"results"`
}

// ComposeResponse carries a canonical single-line address
type ComposeResponse struct {
	FullAddress string `json:"full_address"`
}

// LexiconResponse reports the loaded token set sizes
type LexiconResponse struct {
	Counts lexicon.Counts `json:"counts"`
}

// Compose builds a canonical address from discrete fields
func (h *AddressHandler) Compose(w http.ResponseWriter, r *http.Request) {
	var parts normalize.AddressParts
	if err := json.NewDecoder(r.Body).Decode(&parts); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	writeJSON(w, ComposeResponse{FullAddress: normalize.Compose(parts)})
}

// Decompose parses one address from the query string (GET) or body (POST)
func (h *AddressHandler) Decompose(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if r.Method == http.MethodGet {
		req.Address = r.URL.Query().Get("address")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.Processor.Decompose(req.Address))
}

// DecomposeBatch parses many addresses at once
func (h *AddressHandler) DecomposeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchDecomposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if h.Config != nil && h.Config.MaxBatch > 0 && len(req.Addresses) > h.Config.MaxBatch {
		http.Error(w, "Too many addresses in batch", http.StatusRequestEntityTooLarge)
		return
	}

	results, _, err := h.Processor.DecomposeAll(r.Context(), req.Addresses)
	if err != nil {
		http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, BatchDecomposeResponse{Count: len(results), Results: results})
}

// GetLexicon reports what the loaded lexicon contains
func (h *AddressHandler) GetLexicon(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, LexiconResponse{Counts: h.Lexicon.Counts()})
}

// Health is a liveness probe
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
