package transcript

import (
	"github.com/google/uuid"

	"github.com/MordecaiM24/meridian/internal/jsonval"
)

// Decode parses bytes into a Transcript. Bytes are parsed into a
// jsonval.Value first and then converted, so decoding raw bytes and
// decoding a re-encoded Value are the same code path.
func Decode(data []byte) (Transcript, error) {
	v, err := jsonval.Parse(data)
	if err != nil {
		return Transcript{}, &DecodeError{cause: err}
	}
	return FromValue(v), nil
}

// FromValue converts an already-parsed value into a Transcript. The
// conversion is total: unrecognized shapes collapse to absent fields,
// never to an error.
func FromValue(v jsonval.Value) Transcript {
	var t Transcript

	if segs, ok := v.Get("segments"); ok {
		for _, el := range segs.Elems() {
			t.Segments = append(t.Segments, segmentFromValue(el))
		}
	}

	if speakers, ok := v.Get("speakers"); ok {
		members := speakers.Members()
		if len(members) > 0 {
			t.Speakers = make(map[string]Speaker, len(members))
			for _, m := range members {
				t.Speakers[m.Key] = speakerFromValue(m.Key, m.Value)
			}
		}
	}

	return t
}

func segmentFromValue(v jsonval.Value) Segment {
	seg := Segment{
		ID:      idField(v, "id"),
		Speaker: stringField(v, "speaker"),
		Start:   floatField(v, "start"),
		End:     floatField(v, "end"),
		Text:    stringField(v, "text"),
	}

	if words, ok := v.Get("words"); ok {
		for _, el := range words.Elems() {
			seg.Words = append(seg.Words, Word{
				Start: floatField(el, "start"),
				End:   floatField(el, "end"),
				Word:  stringField(el, "word"),
			})
		}
	}

	return seg
}

func speakerFromValue(key string, v jsonval.Value) Speaker {
	sp := Speaker{
		ID:    idField(v, "id"),
		Name:  stringField(v, "name"),
		Label: stringField(v, "label"),
	}
	// Speaker entries sometimes omit their own id; the map key is the
	// same identifier.
	if _, ok := v.Get("id"); !ok {
		sp.ID = key
	}

	if meta, ok := v.Get("metadata"); ok {
		members := meta.Members()
		if len(members) > 0 {
			sp.Metadata = make(map[string]string, len(members))
			for _, m := range members {
				if s, ok := m.Value.StringValue(); ok {
					sp.Metadata[m.Key] = s
				}
			}
		}
	}

	return sp
}

// idField normalizes an id to a string: numbers become their literal,
// strings pass through, anything else gets a fresh unique id. An id is
// never left unset.
func idField(v jsonval.Value, key string) string {
	if raw, ok := v.Get(key); ok {
		if s, ok := raw.StringValue(); ok {
			return s
		}
	}
	return uuid.NewString()
}

// floatField normalizes a numeric field: native numbers and numeric
// strings both yield a float, anything else yields absent.
func floatField(v jsonval.Value, key string) *float64 {
	raw, ok := v.Get(key)
	if !ok {
		return nil
	}
	f, ok := raw.FloatValue()
	if !ok {
		return nil
	}
	return &f
}

// stringField returns the field as a string, or "" when it is missing
// or not string-shaped.
func stringField(v jsonval.Value, key string) string {
	raw, ok := v.Get(key)
	if !ok {
		return ""
	}
	s, _ := raw.Str()
	return s
}

// UnmarshalJSON decodes a transcript through the lenient path, so
// records persisted by older builds keep loading.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}
