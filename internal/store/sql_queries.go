package store

import (
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/BinGess/Ocean-backend/models"
)

// recordColumns is the canonical column order for scanning a full record row.
var recordColumns = []string{
	"id",
	"user_id",
	"type",
	"transcription",
	"audio_url",
	"duration",
	"processing_mode",
	"moods",
	"needs",
	"nvc_analysis",
	"title",
	"summary",
	"date",
	"referenced_fragments",
	"week_range",
	"referenced_records",
	"pattern_feedback",
	"version",
	"created_at",
	"updated_at",
	"deleted_at",
	"created_device_id",
	"last_modified_device_id",
}

const (
	insertRecord = `INSERT INTO records (
		id,
		user_id,
		type,
		transcription,
		audio_url,
		duration,
		processing_mode,
		moods,
		needs,
		nvc_analysis,
		title,
		summary,
		date,
		referenced_fragments,
		week_range,
		referenced_records,
		pattern_feedback,
		version,
		created_at,
		updated_at,
		created_device_id,
		last_modified_device_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);`

	softDeleteRecord = `UPDATE records
		SET deleted_at = $1,
			updated_at = $1,
			version = version + 1,
			last_modified_device_id = COALESCE($2, last_modified_device_id)
		WHERE id = $3 AND user_id = $4 AND deleted_at IS NULL;`

	updateRecordOpen = `WITH target_record AS (
		SELECT id, version
		FROM records
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	), updated AS (
		UPDATE records
		SET `

	updateRecordClose = `
		RETURNING id
	)
	SELECT (SELECT id FROM updated), (SELECT version FROM target_record);`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func selectRecords() sq.SelectBuilder {
	return psql.Select(recordColumns...).From("records")
}

// buildFindByIDQuery selects a single live record by id, scoped by owner.
func buildFindByIDQuery(userID, id string) (string, []any, error) {
	query, args, err := selectRecords().
		Where(sq.Eq{"user_id": userID, "id": id}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildFindByIDsQuery selects live records whose ids are in the given set.
func buildFindByIDsQuery(userID string, ids []string) (string, []any, error) {
	query, args, err := selectRecords().
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": ids}).
		Where("deleted_at IS NULL").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildChangedSinceQuery selects every record, live or soft-deleted, whose
// updated_at is strictly greater than since. The soft-deleted rows are how
// other devices learn about deletions.
func buildChangedSinceQuery(userID string, since time.Time) (string, []any, error) {
	query, args, err := selectRecords().
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Gt{"updated_at": since}).
		OrderBy("updated_at ASC").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildListQuery selects live records matching the listing filters,
// newest first. List-valued filters (moods, needs) match against the JSON
// text of the column so the query stays portable across drivers.
func buildListQuery(userID string, q models.RecordQuery) (string, []any, error) {
	builder := selectRecords().
		Where(sq.Eq{"user_id": userID}).
		Where("deleted_at IS NULL").
		OrderBy("created_at DESC")

	if q.Type != "" {
		builder = builder.Where(sq.Eq{"type": q.Type})
	}
	if q.StartDate != nil {
		builder = builder.Where(sq.GtOrEq{"created_at": *q.StartDate})
	}
	if q.EndDate != nil {
		builder = builder.Where(sq.LtOrEq{"created_at": *q.EndDate})
	}
	if q.WeekRange != "" {
		builder = builder.Where(sq.Eq{"week_range": q.WeekRange})
	}
	for _, mood := range q.Moods {
		builder = builder.Where(sq.Like{"moods": `%"` + mood + `"%`})
	}
	for _, need := range q.Needs {
		builder = builder.Where(sq.Like{"needs": `%"` + need + `"%`})
	}
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		builder = builder.Offset(uint64(q.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSearchQuery selects live records whose textual fields contain term,
// case-insensitively, newest first.
func buildSearchQuery(userID, term string, limit, offset int) (string, []any, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	builder := selectRecords().
		Where(sq.Eq{"user_id": userID}).
		Where("deleted_at IS NULL").
		Where(sq.Or{
			sq.Like{"LOWER(transcription)": pattern},
			sq.Like{"LOWER(title)": pattern},
			sq.Like{"LOWER(summary)": pattern},
		}).
		OrderBy("created_at DESC")

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	if offset > 0 {
		builder = builder.Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildUpdateRecordQuery dynamically builds the optimistic-locking UPDATE.
//
// The query is a CTE that always returns exactly one row of two nullable
// columns (updated id, current version), letting the caller distinguish
// three outcomes:
//   - both non-NULL      → update applied
//   - both NULL          → no live record with this id/user
//   - id NULL, version non-NULL → version mismatch
//
// Version is always incremented by exactly 1 on success; nil patch fields
// are left unchanged.
func buildUpdateRecordQuery(userID, id string, patch models.RecordPatch, deviceID *string, now time.Time) (string, []any) {
	queryBuilder := new(strings.Builder)
	queryBuilder.WriteString(updateRecordOpen)

	args := make([]any, 0, 20)
	args = append(args, id, userID)
	argIndex := 3

	setClauses := make([]string, 0, 18)

	addClause := func(column string, value any) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Type != nil {
		addClause("type", *patch.Type)
	}
	if patch.Transcription != nil {
		addClause("transcription", *patch.Transcription)
	}
	if patch.AudioURL != nil {
		addClause("audio_url", *patch.AudioURL)
	}
	if patch.Duration != nil {
		addClause("duration", *patch.Duration)
	}
	if patch.ProcessingMode != nil {
		addClause("processing_mode", *patch.ProcessingMode)
	}
	if patch.Moods != nil {
		addClause("moods", *patch.Moods)
	}
	if patch.Needs != nil {
		addClause("needs", *patch.Needs)
	}
	if patch.NVCAnalysis != nil {
		addClause("nvc_analysis", []byte(*patch.NVCAnalysis))
	}
	if patch.Title != nil {
		addClause("title", *patch.Title)
	}
	if patch.Summary != nil {
		addClause("summary", *patch.Summary)
	}
	if patch.Date != nil {
		addClause("date", *patch.Date)
	}
	if patch.ReferencedFragments != nil {
		addClause("referenced_fragments", *patch.ReferencedFragments)
	}
	if patch.WeekRange != nil {
		addClause("week_range", *patch.WeekRange)
	}
	if patch.ReferencedRecords != nil {
		addClause("referenced_records", *patch.ReferencedRecords)
	}
	if patch.PatternFeedback != nil {
		addClause("pattern_feedback", *patch.PatternFeedback)
	}
	if deviceID != nil {
		addClause("last_modified_device_id", *deviceID)
	}

	addClause("updated_at", now)
	setClauses = append(setClauses, "version = version + 1")

	queryBuilder.WriteString(strings.Join(setClauses, ",\n\t\t\t"))

	queryBuilder.WriteString(fmt.Sprintf(`
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL AND version = $%d`, argIndex))
	args = append(args, patch.Version)

	queryBuilder.WriteString(updateRecordClose)

	return queryBuilder.String(), args
}
