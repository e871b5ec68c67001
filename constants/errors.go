package constants

import "fmt"

// MissingIdentifierError reports a catalog lookup invoked without an item
// or ability name. It is raised before any file or network access.
type MissingIdentifierError struct {
	Family string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("missing item or ability parameter for constant family %q", e.Family)
}

// NotSupportedError reports a family the upstream constants database does
// not publish.
type NotSupportedError struct {
	Family string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("constant family %q does not exist in the OpenDota constants database", e.Family)
}

// NotFoundError reports an identifier absent from a resolved dataset, or
// present without a cooldown.
type NotFoundError struct {
	Family     string
	Identifier string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf(
		"%q does not exist in the OpenDota %s database, or it has no cooldown; "+
			"check the spelling, and make sure abilities are prefixed with the hero name "+
			"(e.g. faceless_void_chronosphere)",
		e.Identifier, e.Family)
}

// FetchError reports an unreachable or unparsable upstream document. Stale
// cache data is never substituted for it.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
