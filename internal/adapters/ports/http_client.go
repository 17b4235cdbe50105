package ports

import "net/http"

// HTTPClient is satisfied by *http.Client. Adapters depend on it so tests
// can replace the processor endpoint with mocks.MockHTTPClient.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
