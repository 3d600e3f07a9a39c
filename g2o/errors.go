package g2o

import "errors"

// Sentinel errors for malformed or unsupported g2o input.
var (
	// ErrUnknownToken is returned for a line whose leading token is not one
	// of the supported VERTEX_*/EDGE_*/FIX keywords.
	ErrUnknownToken = errors.New("g2o: unknown token")

	// ErrMalformedLine is returned when a recognized line has the wrong
	// field count or an unparseable numeric field.
	ErrMalformedLine = errors.New("g2o: malformed line")
)
