package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bookshelf/internal/common"
	"github.com/google/uuid"
)

// Request describes one logical outgoing call. The body is kept as bytes so
// a retry resends exactly the same payload.
//
// A Request is either fresh or a retry of another request. The tag is fixed
// when the value is built: retry returns a new Request pointing at the one
// it replaces and never modifies the original.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte

	original *Request
}

// NewRequest returns a fresh Request with its own request ID.
func NewRequest(method, url string, body []byte) *Request {
	h := make(http.Header)
	h.Set(common.RequestIDHeaderName, uuid.NewString())
	return &Request{Method: method, URL: url, Header: h, Body: body}
}

// Retried reports whether this request is the single retry of another one.
func (r *Request) Retried() bool { return r.original != nil }

// Original returns the request this one retries, or nil for a fresh request.
func (r *Request) Original() *Request { return r.original }

func (r *Request) retry() *Request {
	return &Request{
		Method:   r.Method,
		URL:      r.URL,
		Header:   r.Header.Clone(),
		Body:     r.Body,
		original: r,
	}
}

// build turns the descriptor into an *http.Request carrying token, if any.
func (r *Request) build(ctx context.Context, token string) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	if r.Body != nil {
		payload := r.Body
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(payload)), nil
		}
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}
	return req, nil
}
