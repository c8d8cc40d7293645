// Package experience wraps one processed transcript with display
// metadata and a persistence identity. Title, duration, and speaker
// count are derived from the transcript once at creation; values read
// back from disk win over re-derivation so user-visible fields survive
// schema evolution.
package experience

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/MordecaiM24/meridian/internal/transcript"
)

// Experience is one processed transcription session.
type Experience struct {
	ID           string
	Title        string
	Date         time.Time
	Duration     string // formatted, empty when the transcript has no end times
	SpeakerCount *int
	Transcript   transcript.Transcript
	OutputFile   string
}

// New builds an experience around a freshly decoded transcript: a new
// id, the current time, and derived display metadata.
func New(tr transcript.Transcript, outputFile string) Experience {
	return Experience{
		ID:           uuid.NewString(),
		Title:        DeriveTitle(tr),
		Date:         time.Now(),
		Duration:     FormatDuration(tr.EstimatedDuration()),
		SpeakerCount: CountSpeakers(tr),
		Transcript:   tr,
		OutputFile:   outputFile,
	}
}

// record is the persisted JSON shape.
type record struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Date         time.Time             `json:"date"`
	Duration     string                `json:"duration,omitempty"`
	SpeakerCount *int                  `json:"speaker_count,omitempty"`
	Transcript   transcript.Transcript `json:"transcript"`
	OutputFile   string                `json:"output_file"`
}

// MarshalJSON writes the persisted record shape.
func (e Experience) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		ID:           e.ID,
		Title:        e.Title,
		Date:         e.Date,
		Duration:     e.Duration,
		SpeakerCount: e.SpeakerCount,
		Transcript:   e.Transcript,
		OutputFile:   e.OutputFile,
	})
}

// UnmarshalJSON reads a persisted record. Stored fields win; any field
// absent from the record is recomputed from the transcript, and a
// missing id or date is replaced so neither is ever unset.
func (e *Experience) UnmarshalJSON(data []byte) error {
	var rec struct {
		ID           *string               `json:"id"`
		Title        *string               `json:"title"`
		Date         *time.Time            `json:"date"`
		Duration     *string               `json:"duration"`
		SpeakerCount *int                  `json:"speaker_count"`
		Transcript   transcript.Transcript `json:"transcript"`
		OutputFile   string                `json:"output_file"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	e.Transcript = rec.Transcript
	e.OutputFile = rec.OutputFile

	if rec.ID != nil && *rec.ID != "" {
		e.ID = *rec.ID
	} else {
		e.ID = uuid.NewString()
	}
	if rec.Date != nil {
		e.Date = *rec.Date
	} else {
		e.Date = time.Now()
	}
	if rec.Title != nil && *rec.Title != "" {
		e.Title = *rec.Title
	} else {
		e.Title = DeriveTitle(rec.Transcript)
	}
	if rec.Duration != nil {
		e.Duration = *rec.Duration
	} else {
		e.Duration = FormatDuration(rec.Transcript.EstimatedDuration())
	}
	if rec.SpeakerCount != nil {
		e.SpeakerCount = rec.SpeakerCount
	} else {
		e.SpeakerCount = CountSpeakers(rec.Transcript)
	}

	return nil
}
