package scraper

import "fmt"

// ExtractionReason classifies why a field could not be extracted from a
// page that otherwise loaded.
type ExtractionReason string

const (
	// ElementMissing means the selector matched nothing.
	ElementMissing ExtractionReason = "element missing"
	// ContentMalformed means the element was present but its content was
	// not usable.
	ContentMalformed ExtractionReason = "content malformed"
)

// NavigationError reports a failed step on the fixed path through the
// site: a page did not load or an expected control was not clickable.
// It usually means the site structure changed.
type NavigationError struct {
	Step     string // which step of the walk failed
	Selector string // selector or URL the step targeted
	Err      error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed at %s (%s): %v", e.Step, e.Selector, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExtractionError reports a field that could not be pulled out of a
// loaded page. Reason tells a vanished element apart from one whose
// content no longer matches the expected shape.
type ExtractionError struct {
	Field  string
	Reason ExtractionReason
	Detail string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %s: %s", e.Field, e.Reason, e.Detail)
}

// ParseError reports page text that matched the expected layout but did
// not parse, carrying the offending input for diagnosis.
type ParseError struct {
	Field string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s from %q: %v", e.Field, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
