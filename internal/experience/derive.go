package experience

import (
	"fmt"
	"strings"

	"github.com/MordecaiM24/meridian/internal/transcript"
)

// TitlePlaceholder is used when the transcript has no usable text.
const TitlePlaceholder = "Untitled"

// DeriveTitle takes the first three whitespace-separated tokens of the
// first segment's trimmed text.
func DeriveTitle(tr transcript.Transcript) string {
	if len(tr.Segments) == 0 {
		return TitlePlaceholder
	}
	tokens := strings.Fields(strings.TrimSpace(tr.Segments[0].Text))
	if len(tokens) == 0 {
		return TitlePlaceholder
	}
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, " ")
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour.
// A nil duration renders as the empty string.
func FormatDuration(seconds *float64) string {
	if seconds == nil {
		return ""
	}
	total := int(*seconds)
	if total < 0 {
		total = 0
	}
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// CountSpeakers prefers the speaker table; when that is empty it falls
// back to the distinct speakers referenced by segments. No speakers at
// all means absent.
func CountSpeakers(tr transcript.Transcript) *int {
	if n := len(tr.Speakers); n > 0 {
		return &n
	}
	if n := len(tr.SpeakerIDs()); n > 0 {
		return &n
	}
	return nil
}
