package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"cybercase-service/internal/app"
	"cybercase-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

type CaseHandler struct {
	cases *app.CaseService
}

func NewCaseHandler(cases *app.CaseService) *CaseHandler {
	return &CaseHandler{cases: cases}
}

func (h *CaseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/files", h.ListFiles)
	r.Get("/files/{id}", h.GetFile)
	r.Get("/files/{id}/metadata", h.GetMetadata)
	r.Get("/files/{id}/extract", h.Extract)
	r.Post("/assessment", h.Assess)
}

func (h *CaseHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	var parentID *int64
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, domain.ErrNotFound)
			return
		}
		parentID = &id
	}
	showHidden := isTruthy(r.URL.Query().Get("show_hidden"))

	nodes, err := h.cases.ListChildren(r.Context(), parentID, showHidden)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nodes)
}

func (h *CaseHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	node, err := h.cases.GetNode(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, node)
}

func (h *CaseHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	meta, err := h.cases.HiddenMetadata(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, meta)
}

func (h *CaseHandler) Extract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, domain.ErrNotFound)
		return
	}
	children, err := h.cases.Extract(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, children)
}

type assessmentRequest struct {
	MalwareID     interface{} `json:"malware_id"`
	SensitiveID   interface{} `json:"sensitive_id"`
	DecodedPhrase string      `json:"decoded_phrase"`
}

func (h *CaseHandler) Assess(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrInvalidInput)
		return
	}

	// Unknown or garbled ids grade as incorrect findings, never as a
	// rejected submission.
	submission := domain.Assessment{
		MalwareID:     flexibleID(req.MalwareID),
		SensitiveID:   flexibleID(req.SensitiveID),
		DecodedPhrase: req.DecodedPhrase,
	}
	result, err := h.cases.Grade(r.Context(), submission)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func flexibleID(v interface{}) int64 {
	switch id := v.(type) {
	case float64:
		return int64(id)
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}

func isTruthy(v string) bool {
	return v == "1" || v == "true"
}
