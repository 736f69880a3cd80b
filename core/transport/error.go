package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/asimov-run/asimov"
)

// Error names the HTTP endpoints can return, per the wire error taxonomy.
const (
	ErrorNameInvalidRequest       = "InvalidRequest"
	ErrorNameVersionNotSupported  = "VersionNotSupported"
	ErrorNameUnauthorized         = "Unauthorized"
	ErrorNameForbidden            = "Forbidden"
	ErrorNameMessageBufferFull    = "MessageBufferFull"
	ErrorNameSessionNotFound      = "SessionNotFound"
	ErrorNameCommandNotFound      = "CommandNotFound"
	ErrorNameUnexpectedErrorWire  = "UnexpectedError"
)

var statusByErrorName = map[string]int{
	ErrorNameInvalidRequest:      http.StatusBadRequest,
	ErrorNameVersionNotSupported: http.StatusBadRequest,
	ErrorNameUnauthorized:        http.StatusUnauthorized,
	ErrorNameForbidden:           http.StatusForbidden,
	ErrorNameMessageBufferFull:   http.StatusTooManyRequests,
	ErrorNameSessionNotFound:     http.StatusNotFound,
	ErrorNameCommandNotFound:     http.StatusNotFound,
	ErrorNameUnexpectedErrorWire: http.StatusInternalServerError,
}

// NestedError carries the original error's identity when an Error wraps
// an unexpected failure, per §7's propagation policy.
type NestedError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Error is the JSON body every non-204 transport response carries.
type Error struct {
	HTTPStatus       int          `json:"httpStatus"`
	ErrorName        string       `json:"errorName"`
	Message          string       `json:"message"`
	Details          any          `json:"details,omitempty"`
	ServiceChannelID string       `json:"serviceChannelId,omitempty"`
	ClientChannelID  string       `json:"clientChannelId,omitempty"`
	Date             time.Time    `json:"date"`
	NestedError      *NestedError `json:"nestedError,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorName, e.Message)
}

// Render implements asimov.Response, so handlers return a wire Error
// directly (`return transport.NewInvalidRequest(...)`) instead of writing it
// and returning nil.
func (e *Error) Render(w http.ResponseWriter, _ *http.Request) error {
	WriteError(w, e)
	return nil
}

var _ asimov.Response = (*Error)(nil)

// Retryable reports whether a retry is warranted: no HTTP status was ever
// assigned (the request never reached a server) or the server reported a
// 5xx. 4xx responses are the peer rejecting the message outright and never
// retry.
func (e *Error) Retryable() bool {
	return e.HTTPStatus == 0 || e.HTTPStatus/100 == 5
}

// networkError wraps a transport-level failure (DNS, dial, timeout) that
// never produced an HTTP response. It is always retryable: the peer may
// simply be unreachable for the moment.
type networkError struct {
	cause error
}

func newNetworkError(cause error) *networkError { return &networkError{cause: cause} }

func (e *networkError) Error() string  { return e.cause.Error() }
func (e *networkError) Unwrap() error  { return e.cause }
func (e *networkError) Retryable() bool { return true }

func newError(name, message string) *Error {
	return &Error{
		HTTPStatus: statusByErrorName[name],
		ErrorName:  name,
		Message:    message,
		Date:       time.Now().UTC(),
	}
}

// WithDetails attaches extra structured context, e.g. message validation
// child errors.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// WithChannels records which half-channels this error concerns, for the
// agent's benefit when decoding.
func (e *Error) WithChannels(serviceChannelID, clientChannelID string) *Error {
	e.ServiceChannelID = serviceChannelID
	e.ClientChannelID = clientChannelID
	return e
}

func NewInvalidRequest(message string) *Error      { return newError(ErrorNameInvalidRequest, message) }
func NewVersionNotSupported(message string) *Error { return newError(ErrorNameVersionNotSupported, message) }
func NewUnauthorized(message string) *Error        { return newError(ErrorNameUnauthorized, message) }
func NewForbidden(message string) *Error           { return newError(ErrorNameForbidden, message) }
func NewMessageBufferFull(message string) *Error   { return newError(ErrorNameMessageBufferFull, message) }
func NewSessionNotFound(message string) *Error     { return newError(ErrorNameSessionNotFound, message) }
func NewCommandNotFound(message string) *Error     { return newError(ErrorNameCommandNotFound, message) }

// NewUnexpectedError coerces an unrecognized error into the catch-all wire
// error, carrying the original error's text in NestedError.
func NewUnexpectedError(err error) *Error {
	e := newError(ErrorNameUnexpectedErrorWire, "an unexpected error occurred")
	if err != nil {
		e.NestedError = &NestedError{Name: ErrorNameUnexpectedErrorWire, Message: err.Error()}
	}
	return e
}

// WriteError encodes err as the response body with its HTTPStatus.
func WriteError(w http.ResponseWriter, err *Error) {
	status := err.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(err)
}

// DecodeError reads resp's body into an Error. Returns an UnexpectedError
// if the body isn't a well-formed error document.
func DecodeError(resp *http.Response) *Error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if readErr != nil {
		return NewUnexpectedError(readErr).WithDetails(map[string]any{"httpStatus": resp.StatusCode})
	}

	var e Error
	if err := json.Unmarshal(body, &e); err != nil || e.ErrorName == "" {
		e = *NewUnexpectedError(fmt.Errorf("non-protocol error response: %s", string(body)))
		e.HTTPStatus = resp.StatusCode
	}
	return &e
}
