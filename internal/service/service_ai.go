package service

import (
	"context"
	"fmt"
	"time"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/models"
)

// aiService proxies transcriptions to the upstream NVC analysis provider
// and records every call in the ai_api_logs table for quota and failure
// tracking. The analysis payload itself is opaque: it is stored on records
// and forwarded to clients without interpretation.
type aiService struct {
	client AIClient
	logs   store.AIAPILogRepository
	logger *logger.Logger
}

// NewAIService constructs an [AIService] wired to the upstream client and
// call-log repository.
func NewAIService(client AIClient, logs store.AIAPILogRepository, logger *logger.Logger) AIService {
	return &aiService{
		client: client,
		logs:   logs,
		logger: logger,
	}
}

// Analyze runs NVC analysis on a transcription. The upstream call is logged
// whether it succeeds or fails; log persistence itself is best-effort.
func (s *aiService) Analyze(ctx context.Context, userID string, req models.AnalyzeRequest) (models.AnalyzeResponse, error) {
	log := logger.FromContext(ctx)

	if req.Transcription == "" {
		return models.AnalyzeResponse{}, fmt.Errorf("%w: transcription is required", ErrInvalidDataProvided)
	}

	started := time.Now().UTC()
	analysis, statusCode, err := s.client.Analyze(ctx, req.Transcription)
	durationMS := time.Since(started).Milliseconds()

	entry := models.AIAPILog{
		UserID:     &userID,
		APIType:    "nvc_analysis",
		StatusCode: statusCode,
		DurationMS: durationMS,
	}
	if err != nil {
		message := err.Error()
		entry.Error = &message
	}
	if logErr := s.logs.Append(ctx, &entry); logErr != nil {
		log.Err(logErr).Str("func", "aiService.Analyze").Msg("failed to persist ai api log")
	}

	if err != nil {
		log.Err(err).
			Str("func", "aiService.Analyze").
			Int("status_code", statusCode).
			Msg("upstream analysis failed")
		return models.AnalyzeResponse{}, fmt.Errorf("upstream analysis failed: %w", err)
	}

	return models.AnalyzeResponse{
		Analysis:   analysis,
		AnalyzedAt: time.Now().UTC(),
	}, nil
}
