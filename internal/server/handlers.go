package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nafsi-health/contentcore/internal/content"
	"github.com/nafsi-health/contentcore/internal/resolver"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"version":      s.cfg.Version,
		"indexEntries": s.engine.Load().Size(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	locale := r.URL.Query().Get("locale")

	var ct content.ContentType
	if typ := r.URL.Query().Get("type"); typ != "" {
		parsed, err := content.ParseContentType(typ)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ct = parsed
	}

	results := s.engine.Load().Search(q, locale, ct)
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	ct, err := content.ParseContentType(r.PathValue("type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	slug := r.PathValue("slug")
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = "en"
	}

	doc, err := s.resolver.Resolve(r.Context(), ct, slug, locale)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			writeError(w, http.StatusNotFound, "content not found")
			return
		}
		s.logger.Error("resolution failed", "type", string(ct), "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "resolution failed")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type invalidateRequest struct {
	Type   string `json:"type"`
	Slug   string `json:"slug"`
	Locale string `json:"locale"`
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req invalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ct, err := content.ParseContentType(req.Type)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Slug == "" || req.Locale == "" {
		writeError(w, http.StatusBadRequest, "slug and locale are required")
		return
	}

	s.resolver.Invalidate(r.Context(), ct, req.Slug, req.Locale)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	count, err := s.Reindex(r.Context())
	if err != nil {
		s.logger.Error("reindex failed", "error", err)
		writeError(w, http.StatusInternalServerError, "reindex failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"indexEntries": count,
	})
}
