package models

import (
	"encoding/json"
	"time"
)

// AnalyzeRequest asks the AI proxy to run NVC analysis on a transcription.
type AnalyzeRequest struct {
	Transcription string `json:"transcription"`
}

// AnalyzeResponse returns the analysis payload as received from the
// upstream provider. The server stores and forwards it without
// interpreting the structure.
type AnalyzeResponse struct {
	Analysis   json.RawMessage `json:"analysis"`
	AnalyzedAt time.Time       `json:"analyzedAt"`
}

// AIAPILog records one upstream AI call for quota and failure tracking.
type AIAPILog struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"userId,omitempty"`
	APIType    string    `json:"apiType"`
	StatusCode int       `json:"statusCode"`
	DurationMS int64     `json:"durationMs"`
	Error      *string   `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
