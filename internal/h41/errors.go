package h41

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingAttribute is returned when a required attribute is absent.
	ErrMissingAttribute = errors.New("missing required attribute")
	// ErrMissingElement is returned when a required element is absent.
	ErrMissingElement = errors.New("missing required element")
	// ErrInvalidDate is returned for observation dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid observation date")
)

// ParseError reports malformed input: where in the document it was found
// and what was wrong.
type ParseError struct {
	Series  string
	Element string
	Attr    string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("malformed H.4.1 document")
	if e.Series != "" {
		fmt.Fprintf(&b, ": series %s", e.Series)
	}
	if e.Element != "" {
		fmt.Fprintf(&b, ": element %s", e.Element)
	}
	if e.Attr != "" {
		fmt.Fprintf(&b, ": attribute %s", e.Attr)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
