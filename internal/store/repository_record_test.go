package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/models"
)

func newTestRecordRepository(t *testing.T) (RecordRepository, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &DB{DB: mockDB}
	return NewRecordRepository(db, logger.Nop()), mock
}

func TestRecordRepository_Create(t *testing.T) {
	repo, mock := newTestRecordRepository(t)

	mock.ExpectExec("INSERT INTO records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := models.NewRecord("user-1", models.RecordFields{
		Type:          models.RecordTypeQuickNote,
		Transcription: "a short note",
	}, nil)

	err := repo.Create(context.Background(), record)
	require.NoError(t, err)

	assert.NotEmpty(t, record.ID, "repository should assign a server-side id")
	assert.False(t, record.CreatedAt.IsZero())
	assert.Equal(t, int64(1), record.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Update_Outcomes(t *testing.T) {
	transcription := "edited"

	tests := []struct {
		name    string
		rows    *sqlmock.Rows
		wantErr error
	}{
		{
			name: "success",
			rows: sqlmock.NewRows([]string{"id", "version"}).AddRow("rec-1", int64(3)),
		},
		{
			name:    "version conflict: found but not updated",
			rows:    sqlmock.NewRows([]string{"id", "version"}).AddRow(nil, int64(5)),
			wantErr: ErrVersionConflict,
		},
		{
			name:    "not found: both columns NULL",
			rows:    sqlmock.NewRows([]string{"id", "version"}).AddRow(nil, nil),
			wantErr: ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRecordRepository(t)

			mock.ExpectQuery("WITH target_record AS").
				WillReturnRows(tt.rows)

			patch := models.RecordPatch{Version: 3, Transcription: &transcription}
			err := repo.Update(context.Background(), "user-1", "rec-1", patch, nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecordRepository_SoftDelete(t *testing.T) {
	tests := []struct {
		name         string
		rowsAffected int64
		wantErr      error
	}{
		{
			name:         "success",
			rowsAffected: 1,
		},
		{
			name:         "not found or already deleted",
			rowsAffected: 0,
			wantErr:      ErrRecordNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRecordRepository(t)

			mock.ExpectExec("UPDATE records").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			err := repo.SoftDelete(context.Background(), "user-1", "rec-1", nil)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRecordRepository_FindByID_NotFound(t *testing.T) {
	repo, mock := newTestRecordRepository(t)

	mock.ExpectQuery("SELECT .+ FROM records").
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := repo.FindByID(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_FindChangedSince(t *testing.T) {
	repo, mock := newTestRecordRepository(t)

	now := time.Now().UTC()
	deleted := now.Add(-time.Minute)

	rows := sqlmock.NewRows(recordColumns).
		AddRow(
			"rec-1", "user-1", models.RecordTypeQuickNote, "hello", nil, nil, nil,
			[]byte(`["calm"]`), nil, nil, nil, nil, nil, nil, nil, nil, nil,
			int64(2), now.Add(-time.Hour), now, nil, nil, nil,
		).
		AddRow(
			"rec-2", "user-1", models.RecordTypeJournal, "gone", nil, nil, nil,
			nil, nil, nil, nil, nil, nil, nil, nil, nil, nil,
			int64(4), now.Add(-2*time.Hour), now, deleted, nil, nil,
		)

	mock.ExpectQuery("SELECT .+ FROM records").
		WillReturnRows(rows)

	records, err := repo.FindChangedSince(context.Background(), "user-1", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "rec-1", records[0].ID)
	assert.Equal(t, models.StringList{"calm"}, records[0].Moods)
	assert.Nil(t, records[0].DeletedAt)

	assert.Equal(t, "rec-2", records[1].ID)
	require.NotNil(t, records[1].DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_FindByIDs_EmptyInput(t *testing.T) {
	repo, _ := newTestRecordRepository(t)

	records, err := repo.FindByIDs(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}
