package mocks

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// MockHTTPClient is a mock implementation of ports.HTTPClient for testing.
// Request bodies are read and kept in Bodies so tests can inspect what was sent.
type MockHTTPClient struct {
	mu     sync.Mutex
	DoFunc func(req *http.Request) (*http.Response, error)
	Calls  []*http.Request
	Bodies []string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient(doFunc func(req *http.Request) (*http.Response, error)) *MockHTTPClient {
	return &MockHTTPClient{
		DoFunc: doFunc,
		Calls:  []*http.Request{},
	}
}

// NewSequenceHTTPClient answers successive calls with the given bodies and
// status 200, repeating the last body once the sequence is exhausted.
func NewSequenceHTTPClient(bodies ...string) *MockHTTPClient {
	m := NewMockHTTPClient(nil)
	m.DoFunc = func(req *http.Request) (*http.Response, error) {
		i := len(m.Calls) - 1
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		body := ""
		if i >= 0 {
			body = bodies[i]
		}
		return Response(http.StatusOK, body), nil
	}
	return m
}

// Response builds an *http.Response with the given status and body
func Response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

// Do executes the mock function and captures the call
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		req.Body = io.NopCloser(bytes.NewReader(b))
	}
	m.Calls = append(m.Calls, req)
	m.Bodies = append(m.Bodies, body)
	doFunc := m.DoFunc
	m.mu.Unlock()

	if doFunc != nil {
		return doFunc(req)
	}
	return Response(http.StatusOK, ""), nil
}

// CallCount returns the number of requests made
func (m *MockHTTPClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears captured calls
func (m *MockHTTPClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = []*http.Request{}
	m.Bodies = []string{}
}
