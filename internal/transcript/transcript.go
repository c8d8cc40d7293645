// Package transcript holds the decoded segment/speaker structure the
// Meridian service returns for one processed input. The service's JSON
// is not stable across versions — ids flip between numbers and strings,
// numeric fields sometimes arrive as strings, optional fields vanish —
// so decoding is lenient for every field that can be normalized and
// fails only on malformed JSON.
package transcript

import "fmt"

// Word is one timestamped word within a segment.
type Word struct {
	Start *float64 `json:"start,omitempty"`
	End   *float64 `json:"end,omitempty"`
	Word  string   `json:"word"`
}

// Segment is one contiguous span of transcribed speech.
type Segment struct {
	ID      string   `json:"id"`
	Speaker string   `json:"speaker,omitempty"`
	Start   *float64 `json:"start,omitempty"`
	End     *float64 `json:"end,omitempty"`
	Text    string   `json:"text"`
	Words   []Word   `json:"words,omitempty"`
}

// Speaker is one diarized voice.
type Speaker struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"`
	Label    string            `json:"label,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Transcript is the full decoded result: segments in server order plus
// an optional speaker table keyed by speaker id.
type Transcript struct {
	Segments []Segment          `json:"segments"`
	Speakers map[string]Speaker `json:"speakers,omitempty"`
}

// DecodeError reports that the top-level payload was not valid JSON.
// Merely surprising shapes inside a valid document never produce one.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode transcript: %v", e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// EstimatedDuration returns the largest segment end time, or nil when
// no segment carries one.
func (t Transcript) EstimatedDuration() *float64 {
	var max *float64
	for _, seg := range t.Segments {
		if seg.End == nil {
			continue
		}
		if max == nil || *seg.End > *max {
			end := *seg.End
			max = &end
		}
	}
	return max
}

// SpeakerIDs returns the distinct speaker ids referenced by segments,
// in first-appearance order.
func (t Transcript) SpeakerIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, seg := range t.Segments {
		if seg.Speaker == "" || seen[seg.Speaker] {
			continue
		}
		seen[seg.Speaker] = true
		ids = append(ids, seg.Speaker)
	}
	return ids
}
