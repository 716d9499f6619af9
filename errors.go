package awair

import "errors"

// Kind sentinels for every failure this library returns. Match a specific
// kind with errors.Is, or catch all of them with errors.As and *Error.
var (
	// ErrGeneric covers any failure without a more specific kind.
	ErrGeneric = errors.New("error querying the Awair API")

	// ErrAuth indicates an invalid or insufficient credential.
	ErrAuth = errors.New("the supplied access token is invalid or does not have access to the requested data")

	// ErrQuery indicates malformed query parameters. It is also the kind
	// of every validation failure raised before a request is sent.
	ErrQuery = errors.New("the supplied parameters were invalid")

	// ErrNotFound indicates the requested endpoint is gone.
	ErrNotFound = errors.New("the Awair API returned an unexpected HTTP 404")

	// ErrRatelimit indicates the API quota was exceeded. It is terminal
	// for the call; the library never retries or backs off on its own.
	ErrRatelimit = errors.New("the ratelimit for the Awair API has been exceeded, please try again later")
)

// Error is the concrete type of every failure returned by this library. It
// pairs one of the kind sentinels with an optional detail string.
type Error struct {
	kind   error
	detail string
}

func newError(kind error, detail string) *Error {
	return &Error{kind: kind, detail: detail}
}

func (e *Error) Error() string {
	if e.detail == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.detail
}

// Unwrap exposes the kind sentinel so errors.Is can match it.
func (e *Error) Unwrap() error {
	return e.kind
}
