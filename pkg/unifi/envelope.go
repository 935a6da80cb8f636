package unifi

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	resultOK = "ok"

	// msgLoginRequired is the error message the controller returns when the
	// session cookie is no longer valid.
	msgLoginRequired = "api.err.LoginRequired"

	// bodyPreviewLimit bounds how much of a malformed response body is
	// carried in a decode error.
	bodyPreviewLimit = 512
)

// Meta carries the result code and message the controller attaches to every
// envelope response.
type Meta struct {
	ResultCode string `json:"rc"`
	Message    string `json:"msg"`
}

// OK reports whether the result code is "ok". The comparison is
// case-insensitive; controllers have been observed to vary the casing.
func (m Meta) OK() bool {
	return strings.EqualFold(m.ResultCode, resultOK)
}

// LoginRequired reports whether the envelope signals an expired session.
func (m Meta) LoginRequired() bool {
	return !m.OK() && m.Message == msgLoginRequired
}

// Envelope is the controller's uniform response wrapper: a result code and
// message plus zero or more data items. Data is empty, never nil, when the
// wire response omits it.
type Envelope[T any] struct {
	Meta Meta `json:"meta"`
	Data []T  `json:"data"`
}

// First returns the first data item if present.
func (e Envelope[T]) First() (T, bool) {
	if len(e.Data) > 0 {
		return e.Data[0], true
	}
	var zero T
	return zero, false
}

func encodeBody(v any) ([]byte, error) {
	b, err := codec.Marshal(v)
	if err != nil {
		return nil, ErrDecode.MsgErr("unable to encode request body", err)
	}
	return b, nil
}

func decodeEnvelope[T any](raw []byte) (Envelope[T], error) {
	var env Envelope[T]
	if err := codec.Unmarshal(raw, &env); err != nil {
		return env, ErrDecode.MsgErr("unable to decode response envelope", err).Suffix(bodyPreview(raw))
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env, nil
}

func bodyPreview(raw []byte) string {
	if len(raw) > bodyPreviewLimit {
		raw = raw[:bodyPreviewLimit]
	}
	return string(raw)
}
