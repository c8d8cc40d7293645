package api

import "fmt"

// ErrorKind classifies a failed call into exactly one bucket. Callers
// branch on the kind; the wrapped cause is for display and logging.
type ErrorKind string

const (
	// ErrInvalidEndpoint means the request URL could not be built.
	ErrInvalidEndpoint ErrorKind = "invalid_endpoint"
	// ErrInvalidResponse means the HTTP exchange itself was malformed.
	ErrInvalidResponse ErrorKind = "invalid_response"
	// ErrTransport means the request never completed at the network layer.
	ErrTransport ErrorKind = "transport"
	// ErrServer means the service answered with a non-2xx status.
	ErrServer ErrorKind = "server"
	// ErrDecode means the response body did not match the expected shape.
	ErrDecode ErrorKind = "decode"
	// ErrEncode means the request body could not be serialized.
	ErrEncode ErrorKind = "encode"
	// ErrFileNotFound means the upload source file does not exist.
	ErrFileNotFound ErrorKind = "file_not_found"
	// ErrMultipart means the multipart body could not be constructed.
	ErrMultipart ErrorKind = "multipart_encoding"
)

// Error is the single error type returned by Client calls.
type Error struct {
	Kind       ErrorKind
	StatusCode int    // set for ErrServer
	Message    string // server-provided message for ErrServer, if any
	cause      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrServer:
		if e.Message != "" {
			return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
		}
		return fmt.Sprintf("server returned %d", e.StatusCode)
	case ErrFileNotFound:
		return fmt.Sprintf("file not found: %v", e.cause)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }

func wrapErr(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

func serverErr(status int, message string) *Error {
	return &Error{Kind: ErrServer, StatusCode: status, Message: message}
}
