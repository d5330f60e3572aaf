package fetch

import "errors"

var (
	// ErrUnexpectedStatus indicates a non-200 response from the archive host.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrDigestMalformed indicates a published digest file that could not be parsed.
	ErrDigestMalformed = errors.New("malformed digest file")
)
