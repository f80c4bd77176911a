// Package message provides the plain request/response records services in
// this module typically operate over: a Head (method, URI, version, headers,
// extensions), a generic body, and body size bookkeeping.
//
// The combinator layer knows nothing about these types; they are ordinary
// values passed by value into core.Service.Call.
package message
