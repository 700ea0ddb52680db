package server

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/valpere/pravka/internal/differ"
)

type apiRequest struct {
	Text     string `json:"text"`
	LangCode string `json:"lang_code"`
}

type apiResponse struct {
	CorrectedText string            `json:"corrected_text"`
	Corrections   map[string]string `json:"corrections"`
	LangCode      string            `json:"lang_code"`
}

type pageData struct {
	Text     string
	LangCode string
	// Result carries the highlight markup produced by differ.Highlight and
	// is rendered unescaped. Token content itself is not HTML-escaped either,
	// which is a known gap inherited from the highlight format.
	Result template.HTML
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, pageData{LangCode: "en"})
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	text := r.PostFormValue("text")
	if text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	langCode := r.PostFormValue("lang_code")

	corrected, lang, err := s.correct(r.Context(), text, langCode)
	if err != nil {
		s.logger.Error("correction failed", "error", err)
		http.Error(w, fmt.Sprintf("Correction failed: %v", err), http.StatusBadGateway)
		return
	}

	s.renderPage(w, pageData{
		Text:     text,
		LangCode: lang,
		Result:   template.HTML(differ.Highlight(text, corrected)),
	})
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	var req apiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	defer r.Body.Close()

	if req.Text == "" {
		writeJSONError(w, http.StatusBadRequest, "text is required")
		return
	}

	corrected, lang, err := s.correct(r.Context(), req.Text, req.LangCode)
	if err != nil {
		s.logger.Error("correction failed", "error", err)
		writeJSONError(w, http.StatusBadGateway, fmt.Sprintf("correction failed: %v", err))
		return
	}

	tokens, corrections := differ.Diff(req.Text, corrected)

	writeJSON(w, http.StatusOK, apiResponse{
		CorrectedText: joinTokens(tokens),
		Corrections:   corrections,
		LangCode:      lang,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "pravka",
	})
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, openAPISpec)
}

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, redocHTML)
}

func (s *Server) handleDictList(w http.ResponseWriter, r *http.Request) {
	if s.dict == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "dictionary not configured")
		return
	}
	words, err := s.dict.All(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"words": words})
}

func (s *Server) handleDictAdd(w http.ResponseWriter, r *http.Request) {
	if s.dict == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "dictionary not configured")
		return
	}
	var req struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Word == "" {
		writeJSONError(w, http.StatusBadRequest, "word is required")
		return
	}
	if err := s.dict.Add(r.Context(), req.Word); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleDictRemove(w http.ResponseWriter, r *http.Request) {
	if s.dict == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "dictionary not configured")
		return
	}
	word := chi.URLParam(r, "word")
	if word == "" {
		writeJSONError(w, http.StatusBadRequest, "word is required")
		return
	}
	if err := s.dict.Remove(r.Context(), word); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderPage(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("template render failed", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
