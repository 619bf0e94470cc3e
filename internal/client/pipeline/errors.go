package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrAuthorizationFailed matches a request that was rejected with 401
	// after its single retry was used up or could not be attempted.
	ErrAuthorizationFailed = errors.New("authorization failed")

	// ErrNetwork matches transport failures: nothing came back from the server.
	ErrNetwork = errors.New("network error")

	// ErrServer matches any non-2xx response other than 401.
	ErrServer = errors.New("server error")
)

// AuthorizationError is returned for a terminal 401. Cause is the refresh
// failure when the retry could not be attempted, nil when the retried
// request itself was rejected.
type AuthorizationError struct {
	Status  int
	Message string
	Cause   error
}

func (e *AuthorizationError) Error() string {
	msg := fmt.Sprintf("authorization failed: status %d", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AuthorizationError) Is(target error) bool { return target == ErrAuthorizationFailed }
func (e *AuthorizationError) Unwrap() error        { return e.Cause }

// NetworkError wraps a transport failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string        { return "network error: " + e.Err.Error() }
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }
func (e *NetworkError) Unwrap() error        { return e.Err }

// ServerError describes a non-2xx, non-401 response.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error: status %d", e.Status)
	}
	return fmt.Sprintf("server error: status %d: %s", e.Status, e.Message)
}

func (e *ServerError) Is(target error) bool { return target == ErrServer }

// NotFound reports a 404.
func (e *ServerError) NotFound() bool { return e.Status == http.StatusNotFound }

const maxErrorBody = 4 << 10

// errorBody is the JSON error envelope the resource server answers with.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// readErrorMessage consumes and closes resp.Body, returning the error code
// and message it carries. Non-JSON bodies are returned as trimmed text.
func readErrorMessage(resp *http.Response) (code, message string) {
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		if body.Message == "" {
			body.Message = body.Error
		}
		if body.Code != "" || body.Message != "" {
			return body.Code, body.Message
		}
	}
	return "", strings.TrimSpace(string(raw))
}

// NewServerError builds a ServerError from resp and closes its body.
func NewServerError(resp *http.Response) *ServerError {
	code, msg := readErrorMessage(resp)
	return &ServerError{Status: resp.StatusCode, Code: code, Message: msg}
}

// CheckResponse returns nil for 2xx responses and a *ServerError otherwise,
// closing the body in the error case.
func CheckResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return NewServerError(resp)
}
