package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Record types.
const (
	RecordTypeQuickNote = "quick_note"
	RecordTypeJournal   = "journal"
	RecordTypeWeekly    = "weekly"
)

// Processing modes describing how much analysis a record received on capture.
const (
	ProcessingOnlyRecord = "only_record"
	ProcessingWithMood   = "with_mood"
	ProcessingWithNVC    = "with_nvc"
)

// Record is the unit of synchronization: one journal entry owned by exactly
// one user. Version is the sole concurrency-control token: it starts at 1
// on creation and is incremented by exactly 1 on every accepted mutation,
// including soft delete. The analysis payload (NVCAnalysis) and all content
// fields are opaque to the sync engine; it copies them verbatim.
type Record struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	Type           string          `json:"type"`
	Transcription  string          `json:"transcription"`
	AudioURL       *string         `json:"audioUrl,omitempty"`
	Duration       *float64        `json:"duration,omitempty"`
	ProcessingMode *string         `json:"processingMode,omitempty"`
	Moods          StringList      `json:"moods,omitempty"`
	Needs          StringList      `json:"needs,omitempty"`
	NVCAnalysis    json.RawMessage `json:"nvcAnalysis,omitempty"`

	// Journal-specific fields.
	Title               *string    `json:"title,omitempty"`
	Summary             *string    `json:"summary,omitempty"`
	Date                *time.Time `json:"date,omitempty"`
	ReferencedFragments StringList `json:"referencedFragments,omitempty"`

	// Weekly-specific fields.
	WeekRange         *string    `json:"weekRange,omitempty"`
	ReferencedRecords StringList `json:"referencedRecords,omitempty"`

	PatternFeedback *string `json:"patternFeedback,omitempty"`

	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`

	CreatedDeviceID      *string `json:"createdDeviceId,omitempty"`
	LastModifiedDeviceID *string `json:"lastModifiedDeviceId,omitempty"`
}

// RecordFields carries the client-supplied content of a record on create.
// It is the payload shape shared by the direct create endpoint, Push's
// create path, and BulkMigrate items.
type RecordFields struct {
	Type           string          `json:"type"`
	Transcription  string          `json:"transcription"`
	AudioURL       *string         `json:"audioUrl,omitempty"`
	Duration       *float64        `json:"duration,omitempty"`
	ProcessingMode *string         `json:"processingMode,omitempty"`
	Moods          StringList      `json:"moods,omitempty"`
	Needs          StringList      `json:"needs,omitempty"`
	NVCAnalysis    json.RawMessage `json:"nvcAnalysis,omitempty"`

	Title               *string    `json:"title,omitempty"`
	Summary             *string    `json:"summary,omitempty"`
	Date                *time.Time `json:"date,omitempty"`
	ReferencedFragments StringList `json:"referencedFragments,omitempty"`

	WeekRange         *string    `json:"weekRange,omitempty"`
	ReferencedRecords StringList `json:"referencedRecords,omitempty"`

	PatternFeedback *string `json:"patternFeedback,omitempty"`
}

// RecordPatch carries a partial update: nil pointers mean "leave unchanged".
// Version is the client's believed version, compared against the server's
// current version before the patch is applied.
type RecordPatch struct {
	Version int64 `json:"version"`

	Type           *string          `json:"type,omitempty"`
	Transcription  *string          `json:"transcription,omitempty"`
	AudioURL       *string          `json:"audioUrl,omitempty"`
	Duration       *float64         `json:"duration,omitempty"`
	ProcessingMode *string          `json:"processingMode,omitempty"`
	Moods          *StringList      `json:"moods,omitempty"`
	Needs          *StringList      `json:"needs,omitempty"`
	NVCAnalysis    *json.RawMessage `json:"nvcAnalysis,omitempty"`

	Title               *string     `json:"title,omitempty"`
	Summary             *string     `json:"summary,omitempty"`
	Date                *time.Time  `json:"date,omitempty"`
	ReferencedFragments *StringList `json:"referencedFragments,omitempty"`

	WeekRange         *string     `json:"weekRange,omitempty"`
	ReferencedRecords *StringList `json:"referencedRecords,omitempty"`

	PatternFeedback *string `json:"patternFeedback,omitempty"`
}

// RecordQuery holds the optional filters of the records listing endpoint.
type RecordQuery struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Moods     []string
	Needs     []string
	WeekRange string
	Limit     int
	Offset    int
}

// NewRecord builds an unsaved Record from client-supplied fields.
// The store assigns ID, CreatedAt and UpdatedAt on insert.
func NewRecord(userID string, fields RecordFields, deviceID *string) *Record {
	return &Record{
		UserID:               userID,
		Type:                 fields.Type,
		Transcription:        fields.Transcription,
		AudioURL:             fields.AudioURL,
		Duration:             fields.Duration,
		ProcessingMode:       fields.ProcessingMode,
		Moods:                fields.Moods,
		Needs:                fields.Needs,
		NVCAnalysis:          fields.NVCAnalysis,
		Title:                fields.Title,
		Summary:              fields.Summary,
		Date:                 fields.Date,
		ReferencedFragments:  fields.ReferencedFragments,
		WeekRange:            fields.WeekRange,
		ReferencedRecords:    fields.ReferencedRecords,
		PatternFeedback:      fields.PatternFeedback,
		Version:              1,
		CreatedDeviceID:      deviceID,
		LastModifiedDeviceID: deviceID,
	}
}

// StringList is a []string stored as a JSON array in the database.
// It implements sql.Scanner and driver.Valuer so that list-valued record
// fields round-trip through jsonb columns with database/sql.
type StringList []string

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}

	return json.Unmarshal(data, (*[]string)(l))
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal([]string(l))
}
