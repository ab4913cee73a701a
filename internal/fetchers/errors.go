package fetchers

import "fmt"

// FetchError reports a dataset request that did not produce a usable
// response: either a transport failure (StatusCode 0) or a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	StatusText string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("failed to fetch historical data: %v", e.Err)
	}
	return fmt.Sprintf("failed to fetch historical data: %s", e.StatusText)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not a valid stats array
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse historical data: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
