package transcript

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/MordecaiM24/meridian/internal/jsonval"
)

func TestDecodeBasic(t *testing.T) {
	data := []byte(`{
		"segments": [
			{"id": 0, "speaker": "SPEAKER_00", "start": 0.0, "end": 3.2, "text": "Hello"},
			{"id": 1, "speaker": "SPEAKER_01", "start": 3.2, "end": 7.9, "text": "Hi there"}
		],
		"speakers": {
			"SPEAKER_00": {"id": "SPEAKER_00", "label": "speaker_00"},
			"SPEAKER_01": {"id": "SPEAKER_01", "label": "speaker_01"}
		}
	}`)

	tr, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(tr.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(tr.Segments))
	}
	if tr.Segments[0].ID != "0" {
		t.Errorf("id = %q, want %q", tr.Segments[0].ID, "0")
	}
	if tr.Segments[0].Text != "Hello" {
		t.Errorf("text = %q", tr.Segments[0].Text)
	}
	if tr.Segments[1].End == nil || *tr.Segments[1].End != 7.9 {
		t.Errorf("end = %v, want 7.9", tr.Segments[1].End)
	}
	if len(tr.Speakers) != 2 {
		t.Fatalf("speakers = %d, want 2", len(tr.Speakers))
	}
	if tr.Speakers["SPEAKER_00"].Label != "speaker_00" {
		t.Errorf("label = %q", tr.Speakers["SPEAKER_00"].Label)
	}
}

func TestDecodeIDNormalization(t *testing.T) {
	data := []byte(`{"segments": [
		{"id": 3, "text": "int id"},
		{"id": "abc", "text": "string id"},
		{"text": "missing id"},
		{"id": true, "text": "bool id"}
	]}`)

	tr, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if tr.Segments[0].ID != "3" {
		t.Errorf("int id = %q, want %q", tr.Segments[0].ID, "3")
	}
	if tr.Segments[1].ID != "abc" {
		t.Errorf("string id = %q, want %q", tr.Segments[1].ID, "abc")
	}

	// Unset or junk ids get synthesized, non-empty and distinct.
	if tr.Segments[2].ID == "" || tr.Segments[3].ID == "" {
		t.Fatal("synthesized ids must be non-empty")
	}
	if tr.Segments[2].ID == tr.Segments[3].ID {
		t.Error("synthesized ids must be distinct")
	}
}

func TestDecodeNumericCoercion(t *testing.T) {
	asString, err := Decode([]byte(`{"segments":[{"id":0,"start":"12.5","end":"20","text":"x"}]}`))
	if err != nil {
		t.Fatalf("decode string form: %v", err)
	}
	asNumber, err := Decode([]byte(`{"segments":[{"id":0,"start":12.5,"end":20,"text":"x"}]}`))
	if err != nil {
		t.Fatalf("decode number form: %v", err)
	}

	if *asString.Segments[0].Start != *asNumber.Segments[0].Start {
		t.Errorf("start: string form %v, number form %v", *asString.Segments[0].Start, *asNumber.Segments[0].Start)
	}
	if *asString.Segments[0].End != *asNumber.Segments[0].End {
		t.Errorf("end: string form %v, number form %v", *asString.Segments[0].End, *asNumber.Segments[0].End)
	}
}

func TestDecodeMalformedFieldsBecomeAbsent(t *testing.T) {
	data := []byte(`{"segments":[{"id":0,"start":"noon","end":null,"text":7,"speaker":false}]}`)

	tr, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	seg := tr.Segments[0]
	if seg.Start != nil {
		t.Errorf("start = %v, want absent", *seg.Start)
	}
	if seg.End != nil {
		t.Errorf("end = %v, want absent", *seg.End)
	}
	if seg.Text != "" {
		t.Errorf("text = %q, want empty", seg.Text)
	}
	if seg.Speaker != "" {
		t.Errorf("speaker = %q, want empty", seg.Speaker)
	}
}

func TestDecodeWords(t *testing.T) {
	data := []byte(`{"segments":[{"id":0,"text":"hi there","words":[
		{"start":0.1,"end":0.4,"word":"hi"},
		{"start":"0.5","word":"there"}
	]}]}`)

	tr, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	words := tr.Segments[0].Words
	if len(words) != 2 {
		t.Fatalf("words = %d, want 2", len(words))
	}
	if words[0].Word != "hi" || *words[0].Start != 0.1 {
		t.Errorf("words[0] = %+v", words[0])
	}
	if words[1].Start == nil || *words[1].Start != 0.5 {
		t.Errorf("words[1].Start = %v, want 0.5", words[1].Start)
	}
	if words[1].End != nil {
		t.Errorf("words[1].End = %v, want absent", words[1].End)
	}
}

func TestDecodeSpeakerDefaults(t *testing.T) {
	data := []byte(`{"segments":[],"speakers":{"S0":{"label":"speaker_00","metadata":{"lang":"en"}}}}`)

	tr, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	sp := tr.Speakers["S0"]
	if sp.ID != "S0" {
		t.Errorf("id = %q, want map key %q", sp.ID, "S0")
	}
	if sp.Metadata["lang"] != "en" {
		t.Errorf("metadata = %v", sp.Metadata)
	}
}

func TestDecodeMalformedTopLevel(t *testing.T) {
	_, err := Decode([]byte(`{"segments": [`))
	if err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("error type = %T, want *DecodeError", err)
	}
}

func TestValueRoundTripLaw(t *testing.T) {
	raw := []byte(`{"segments":[{"id":0,"speaker":"S0","start":"1.5","end":3.2,"text":"Hello"}],"speakers":{"S0":{"label":"speaker_00"}}}`)

	direct, err := Decode(raw)
	if err != nil {
		t.Fatalf("direct decode: %v", err)
	}

	v, err := jsonval.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	viaValue, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode re-encoded: %v", err)
	}

	directJSON, _ := json.Marshal(direct)
	viaValueJSON, _ := json.Marshal(viaValue)
	if string(directJSON) != string(viaValueJSON) {
		t.Errorf("round trip mismatch:\n direct: %s\n via value: %s", directJSON, viaValueJSON)
	}
}

func TestEstimatedDuration(t *testing.T) {
	end1, end2 := 3.2, 9.7
	tr := Transcript{Segments: []Segment{
		{ID: "0", End: &end1},
		{ID: "1"},
		{ID: "2", End: &end2},
	}}

	d := tr.EstimatedDuration()
	if d == nil || *d != 9.7 {
		t.Errorf("duration = %v, want 9.7", d)
	}

	empty := Transcript{Segments: []Segment{{ID: "0"}}}
	if empty.EstimatedDuration() != nil {
		t.Error("duration should be absent when no segment has an end")
	}
}

func TestSpeakerIDs(t *testing.T) {
	tr := Transcript{Segments: []Segment{
		{ID: "0", Speaker: "B"},
		{ID: "1", Speaker: "A"},
		{ID: "2", Speaker: "B"},
		{ID: "3"},
	}}

	ids := tr.SpeakerIDs()
	if len(ids) != 2 || ids[0] != "B" || ids[1] != "A" {
		t.Errorf("ids = %v, want [B A]", ids)
	}
}
