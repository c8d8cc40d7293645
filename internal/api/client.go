package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// DefaultBaseURL is where the workflow service listens locally.
const DefaultBaseURL = "http://127.0.0.1:9000"

// Client talks to the Meridian workflow service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL. An empty baseURL
// selects the local default. The zero http.Client is used, so the
// transport's default timeout behavior applies.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Health checks that the service is reachable.
func (c *Client) Health(ctx context.Context) (HealthResult, error) {
	endpoint, err := c.endpoint("/health", nil)
	if err != nil {
		return HealthResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return HealthResult{}, wrapErr(ErrInvalidEndpoint, err)
	}

	var result HealthResult
	if err := c.do(req, &result); err != nil {
		return HealthResult{}, err
	}
	return result, nil
}

// EnsureServer asks the service to make sure the whisper server is
// running on the given port. Idempotent; the service no-ops when the
// server is already up.
func (c *Client) EnsureServer(ctx context.Context, port int, host string) (EnsureResult, error) {
	query := url.Values{}
	query.Set("port", strconv.Itoa(port))
	query.Set("host", host)

	endpoint, err := c.endpoint("/ensure_whisper_server", query)
	if err != nil {
		return EnsureResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return EnsureResult{}, wrapErr(ErrInvalidEndpoint, err)
	}

	var result EnsureResult
	if err := c.do(req, &result); err != nil {
		return EnsureResult{}, err
	}
	return result, nil
}

// Process submits a local path or remote-media URL for transcription.
// The inline combined JSON is always requested.
func (c *Client) Process(ctx context.Context, opts ProcessOptions) (ProcessResult, error) {
	opts.ReturnJSON = true

	body, err := json.Marshal(opts)
	if err != nil {
		return ProcessResult{}, wrapErr(ErrEncode, err)
	}

	endpoint, err := c.endpoint("/process", nil)
	if err != nil {
		return ProcessResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ProcessResult{}, wrapErr(ErrInvalidEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result ProcessResult
	if err := c.do(req, &result); err != nil {
		return ProcessResult{}, err
	}
	return result, nil
}

// Upload sends a local file's bytes for transcription. opts.Input is
// ignored; the file itself is the input.
func (c *Client) Upload(ctx context.Context, path string, opts ProcessOptions) (ProcessResult, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return ProcessResult{}, wrapErr(ErrFileNotFound, err)
	}
	return c.UploadBytes(ctx, contents, baseName(path), opts)
}

// UploadBytes sends raw file contents under the given filename.
func (c *Client) UploadBytes(ctx context.Context, contents []byte, filename string, opts ProcessOptions) (ProcessResult, error) {
	opts.ReturnJSON = true

	body, contentType, err := buildUploadBody(contents, filename, opts)
	if err != nil {
		return ProcessResult{}, err
	}

	endpoint, err := c.endpoint("/upload", nil)
	if err != nil {
		return ProcessResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return ProcessResult{}, wrapErr(ErrInvalidEndpoint, err)
	}
	req.Header.Set("Content-Type", contentType)

	var result ProcessResult
	if err := c.do(req, &result); err != nil {
		return ProcessResult{}, err
	}
	return result, nil
}

// buildUploadBody constructs the multipart payload: the file part
// first, then one text part per option in fixed order, then the
// closing boundary.
func buildUploadBody(contents []byte, filename string, opts ProcessOptions) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", wrapErr(ErrMultipart, err)
	}
	if _, err := fw.Write(contents); err != nil {
		return nil, "", wrapErr(ErrMultipart, err)
	}

	for _, field := range opts.uploadFields() {
		if err := mw.WriteField(field.name, field.value); err != nil {
			return nil, "", wrapErr(ErrMultipart, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", wrapErr(ErrMultipart, err)
	}
	return buf.Bytes(), mw.FormDataContentType(), nil
}

func (c *Client) endpoint(path string, query url.Values) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", wrapErr(ErrInvalidEndpoint, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

// do runs one round trip and decodes a 2xx body into out. Non-2xx
// responses become ErrServer with the extracted message.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return wrapErr(ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapErr(ErrInvalidResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverErr(resp.StatusCode, extractMessage(body, resp.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return wrapErr(ErrDecode, err)
	}
	return nil
}

// extractMessage pulls a human-readable message out of an error body:
// the "error" field, the "detail" field the service actually emits, the
// raw body if non-empty, or the status text.
func extractMessage(body []byte, status int) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Detail != "" {
			return parsed.Detail
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return http.StatusText(status)
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
