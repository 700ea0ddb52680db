package internal

import "time"

type CorrectionRequest struct {
	ID         string    `json:"id"`
	SourceText string    `json:"source_text"`
	LangCode   string    `json:"lang_code"`
	Timestamp  time.Time `json:"timestamp"`
}
