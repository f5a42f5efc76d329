package httpclient

import "fmt"

// HTTPError is returned for any response outside the 2xx range so callers
// can branch on the status code. Body carries the raw response body for
// diagnosis.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

// Error returns the error message
func (e *HTTPError) Error() string {
	return fmt.Sprintf("request to %s returned HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}
