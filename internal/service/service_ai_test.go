package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/mock"
	"github.com/BinGess/Ocean-backend/models"
)

func newTestAIService(t *testing.T) (AIService, *mock.MockAIClient, *mock.MockAIAPILogRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := mock.NewMockAIClient(ctrl)
	logs := mock.NewMockAIAPILogRepository(ctrl)

	return NewAIService(client, logs, logger.Nop()), client, logs
}

func TestAIService_Analyze(t *testing.T) {
	svc, client, logs := newTestAIService(t)

	payload := json.RawMessage(`{"feelings":["calm"]}`)
	client.EXPECT().
		Analyze(gomock.Any(), "today was fine").
		Return(payload, 200, nil)
	logs.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.AIAPILog) error {
			assert.Equal(t, "nvc_analysis", entry.APIType)
			assert.Equal(t, 200, entry.StatusCode)
			assert.Nil(t, entry.Error)
			return nil
		})

	resp, err := svc.Analyze(context.Background(), testUserID, models.AnalyzeRequest{Transcription: "today was fine"})
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(resp.Analysis))
	assert.False(t, resp.AnalyzedAt.IsZero())
}

func TestAIService_Analyze_EmptyTranscription(t *testing.T) {
	svc, _, _ := newTestAIService(t)

	_, err := svc.Analyze(context.Background(), testUserID, models.AnalyzeRequest{})
	require.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAIService_Analyze_UpstreamFailureStillLogged(t *testing.T) {
	svc, client, logs := newTestAIService(t)

	client.EXPECT().
		Analyze(gomock.Any(), "text").
		Return(nil, 502, errors.New("bad gateway"))
	logs.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry *models.AIAPILog) error {
			assert.Equal(t, 502, entry.StatusCode)
			require.NotNil(t, entry.Error)
			assert.Contains(t, *entry.Error, "bad gateway")
			return nil
		})

	_, err := svc.Analyze(context.Background(), testUserID, models.AnalyzeRequest{Transcription: "text"})
	require.Error(t, err)
}

func TestAIService_Analyze_LogFailureDoesNotFailCall(t *testing.T) {
	svc, client, logs := newTestAIService(t)

	client.EXPECT().
		Analyze(gomock.Any(), "text").
		Return(json.RawMessage(`{}`), 200, nil)
	logs.EXPECT().
		Append(gomock.Any(), gomock.Any()).
		Return(errors.New("insert failed"))

	_, err := svc.Analyze(context.Background(), testUserID, models.AnalyzeRequest{Transcription: "text"})
	require.NoError(t, err)
}
