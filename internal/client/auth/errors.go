package auth

import "errors"

var (
	// ErrRefreshFailed matches every failed refresh. The session is over
	// once it is returned: credentials have already been cleared.
	ErrRefreshFailed = errors.New("refresh failed")

	// ErrNoRefreshToken is the cause when there is nothing to refresh with.
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrEmptyAccessToken is the cause when the server answered without a token.
	ErrEmptyAccessToken = errors.New("server returned no access token")
)

// RefreshError wraps the network, server or storage failure behind a
// failed refresh.
type RefreshError struct {
	Cause error
}

func (e *RefreshError) Error() string        { return "refresh failed: " + e.Cause.Error() }
func (e *RefreshError) Is(target error) bool { return target == ErrRefreshFailed }
func (e *RefreshError) Unwrap() error        { return e.Cause }
