package ao3

import "fmt"

var ErrLoginFailed = fmt.Errorf("Failed to login to your account.")

// ErrPartialCredentials is returned when only one half of a
// username/password pair is configured.
var ErrPartialCredentials = fmt.Errorf("username and password must both be provided or both be omitted")

// TransportError wraps a network failure or an unreadable response body.
type TransportError struct {
	Err error
}

func (e TransportError) Error() string {
	return fmt.Sprintf("transport: %s", e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a required element absent from the work page.
// Extraction stops at the first one, a partially populated Work is never
// returned.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// FormatError reports a required value that was present but unparsable.
type FormatError struct {
	Field string
	Value string
}

func (e FormatError) Error() string {
	return fmt.Sprintf("malformed %s: %q", e.Field, e.Value)
}
