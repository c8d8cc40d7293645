// Package api is the HTTP client for the Meridian workflow service.
// Each exported call is exactly one request/response round trip; there
// are no retries at this layer.
package api

import (
	"strconv"

	"github.com/MordecaiM24/meridian/internal/jsonval"
)

// ProcessOptions mirror the service's processing flags. Field names are
// snake_case on the wire.
type ProcessOptions struct {
	Input       string `json:"input"`
	Output      string `json:"output,omitempty"`
	Speakers    *int   `json:"speakers,omitempty"`
	NoDiarize   bool   `json:"no_diarize"`
	KeepTemp    bool   `json:"keep_temp"`
	WhisperPort int    `json:"whisper_port"`
	NoServer    bool   `json:"no_server"`
	ReturnJSON  bool   `json:"return_json"`
}

// ProcessResult is the service's answer to a process or upload call.
// Data is absent when the service declined to inline the combined JSON
// (the client always asks for it, so absence is unexpected but legal).
type ProcessResult struct {
	OutputFile string         `json:"output_file"`
	Data       *jsonval.Value `json:"data,omitempty"`
}

// EnsureResult reports the whisper server state after an ensure call.
type EnsureResult struct {
	Status string
	Host   string
	Port   int
}

// UnmarshalJSON is lenient about the port: the service stringifies it
// in some builds.
func (r *EnsureResult) UnmarshalJSON(data []byte) error {
	v, err := jsonval.Parse(data)
	if err != nil {
		return err
	}

	if status, ok := v.Get("status"); ok {
		r.Status, _ = status.Str()
	}
	if host, ok := v.Get("host"); ok {
		r.Host, _ = host.Str()
	}
	if port, ok := v.Get("port"); ok {
		if f, ok := port.FloatValue(); ok {
			r.Port = int(f)
		}
	}
	return nil
}

// HealthResult is the answer to a health check.
type HealthResult struct {
	Status string `json:"status"`
}

// errorBody is the optional shape of a non-2xx response.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// uploadFields lists the multipart text parts in their fixed wire
// order, after the file part.
func (o ProcessOptions) uploadFields() []fieldPair {
	var fields []fieldPair
	if o.Output != "" {
		fields = append(fields, fieldPair{"output", o.Output})
	}
	if o.Speakers != nil {
		fields = append(fields, fieldPair{"speakers", itoa(*o.Speakers)})
	}
	fields = append(fields,
		fieldPair{"no_diarize", btoa(o.NoDiarize)},
		fieldPair{"keep_temp", btoa(o.KeepTemp)},
		fieldPair{"whisper_port", itoa(o.WhisperPort)},
		fieldPair{"no_server", btoa(o.NoServer)},
		fieldPair{"return_json", btoa(o.ReturnJSON)},
	)
	return fields
}

type fieldPair struct {
	name  string
	value string
}

func itoa(i int) string { return strconv.Itoa(i) }

func btoa(b bool) string { return strconv.FormatBool(b) }
