package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/valpere/pravka/internal"
	"github.com/valpere/pravka/internal/chunker"
	"github.com/valpere/pravka/internal/corrector"
	"github.com/valpere/pravka/internal/dict"
	"github.com/valpere/pravka/internal/placeholder"
)

// correct runs the full correction pipeline for one request: resolve the
// language, consult the correction memory, protect markup, chunk, send each
// chunk to the oracle, restore markup and protected words, and persist the
// final text. It returns the corrected text and the language it was
// corrected under.
func (s *Server) correct(ctx context.Context, text, langCode string) (string, string, error) {
	langCode = s.resolveLanguage(text, langCode)

	if s.store != nil {
		cached, found, err := s.store.GetCachedCorrection(ctx, text, langCode)
		if err != nil {
			s.logger.Warn("correction memory lookup failed", "error", err)
		} else if found {
			s.logger.Debug("correction memory hit", "lang", langCode)
			return cached, langCode, nil
		}
	}

	protected, markers := placeholder.Protect(text)
	chunks := chunker.Chunk(protected, s.maxChunkChars)

	outputs := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		res, err := s.oracle.Correct(ctx, s.serviceCfg, corrector.CorrectRequest{
			Text:     chunk,
			LangCode: langCode,
		})
		if err != nil {
			return "", langCode, err
		}
		if res.Error != "" {
			return "", langCode, fmt.Errorf("%s: %s", res.ServiceName, res.Error)
		}
		outputs = append(outputs, res.CorrectedText)
	}

	corrected := strings.Join(outputs, "\n\n")
	corrected = placeholder.Restore(corrected, markers)

	if s.dict != nil {
		words, err := s.dict.All(ctx)
		if err != nil {
			s.logger.Warn("protected-word lookup failed", "error", err)
		} else {
			corrected = dict.Restore(text, corrected, words)
		}
	}

	if ok, err := s.validator.IsValid(corrected, langCode); err != nil {
		s.logger.Warn("correction rejected", "lang", langCode, "error", err)
	} else if !ok {
		s.logger.Warn("corrected text drifted out of the input language", "lang", langCode)
	}

	if s.store != nil {
		s.persist(ctx, text, langCode, corrected)
	}

	return corrected, langCode, nil
}

// resolveLanguage returns langCode as-is unless it is empty or "auto", in
// which case the text's language is detected. Falls back to "en" when
// detection is inconclusive.
func (s *Server) resolveLanguage(text, langCode string) string {
	if langCode != "" && langCode != "auto" {
		return langCode
	}
	if iso, ok := s.languageDetector().DetectISO(text); ok {
		return strings.ToLower(iso)
	}
	return "en"
}

func (s *Server) persist(ctx context.Context, text, langCode, corrected string) {
	req := internal.CorrectionRequest{
		ID:         uuid.NewString(),
		SourceText: text,
		LangCode:   langCode,
		Timestamp:  time.Now(),
	}
	if err := s.store.SaveRequest(ctx, req); err != nil {
		s.logger.Warn("failed to save request", "error", err)
		return
	}
	if err := s.store.SaveResult(ctx, req.ID, s.oracle.Name(), corrected, 0, 0, ""); err != nil {
		s.logger.Warn("failed to save result", "error", err)
	}
	if err := s.store.SaveToMemory(ctx, text, langCode, corrected, "", s.oracle.Name()); err != nil {
		s.logger.Warn("failed to save to correction memory", "error", err)
	}
}
