package message

import (
	"fmt"
	"net/http"
)

// ResponseHead is the non-body part of a response.
type ResponseHead struct {
	Status     int
	Version    Version
	Header     http.Header
	Extensions Extensions
}

// Response is a response head plus a body of type B.
type Response[B any] struct {
	Head ResponseHead
	Body B
}

// NewResponse builds a response with the given status and body.
func NewResponse[B any](status int, body B) Response[B] {
	return Response[B]{
		Head: ResponseHead{Status: status, Version: HTTP11, Header: make(http.Header)},
		Body: body,
	}
}

// OK builds a 200 response.
func OK[B any](body B) Response[B] { return NewResponse(http.StatusOK, body) }

// MapResponseBody converts the body while keeping the head.
func MapResponseBody[B, U any](r Response[B], fn func(B) U) Response[U] {
	return Response[U]{Head: r.Head, Body: fn(r.Body)}
}

// String renders the status line.
func (r Response[B]) String() string {
	return fmt.Sprintf("%s %d %s", r.Head.Version, r.Head.Status, http.StatusText(r.Head.Status))
}
