package message

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Version is the protocol version of a message.
type Version string

// Known protocol versions.
const (
	HTTP10 Version = "HTTP/1.0"
	HTTP11 Version = "HTTP/1.1"
	HTTP2  Version = "HTTP/2.0"
)

// Head is the non-body part of a request.
type Head struct {
	Method     string
	URI        *url.URL
	Version    Version
	Header     http.Header
	Extensions Extensions
}

// RequestID is stored in a request's Extensions by NewRequest.
type RequestID string

// Request is a message head plus a body of type B.
type Request[B any] struct {
	Head Head
	Body B
}

// NewRequest builds a request with a parsed URI, HTTP/1.1, empty headers and
// a fresh RequestID extension.
func NewRequest[B any](method, rawURI string, body B) (Request[B], error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return Request[B]{}, fmt.Errorf("invalid request uri %q: %w", rawURI, err)
	}
	req := Request[B]{
		Head: Head{
			Method:  method,
			URI:     u,
			Version: HTTP11,
			Header:  make(http.Header),
		},
		Body: body,
	}
	Insert(&req.Head.Extensions, RequestID(uuid.NewString()))
	return req, nil
}

// ID returns the request's RequestID extension, or "" if none was set.
func (r *Request[B]) ID() RequestID {
	id, _ := Get[RequestID](&r.Head.Extensions)
	return id
}

// MapRequestBody converts the body while keeping the head.
func MapRequestBody[B, U any](r Request[B], fn func(B) U) Request[U] {
	return Request[U]{Head: r.Head, Body: fn(r.Body)}
}

// String renders the request line.
func (r Request[B]) String() string {
	uri := ""
	if r.Head.URI != nil {
		uri = r.Head.URI.String()
	}
	return fmt.Sprintf("%s %s %s", r.Head.Method, uri, r.Head.Version)
}
