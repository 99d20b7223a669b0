// Package codec serializes the planner's ItemsMap into a compact string that
// can live in a URL fragment, and decodes every historical variant of that
// string back into the canonical in-memory shape.
//
// Wire format: base64(JSON) of the compact form
//
//	{"2025-08-11": [["<id>", "<text>"], ...], ...}
//
// Decoding also accepts two legacy shapes:
//
//	{"items": {"2025-08-11": [{"id": "...", "text": "..."}]}}  (wrapped)
//	{"2025-08-11": [{"id": "...", "text": "..."}]}             (keyed)
package codec

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/h0rv/weekplan/internal/domain"
)

var (
	// ErrEmptyState indicates there was nothing to decode.
	ErrEmptyState = errors.New("empty state")
	// ErrMalformedState indicates the input is not base64-encoded JSON of a
	// known shape.
	ErrMalformedState = errors.New("malformed state")
)

// Payload is anything the encoder can extract an ItemsMap from. Both
// domain.ItemsMap and the legacy wrapper domain.LegacyState implement it.
type Payload interface {
	Unwrap() domain.ItemsMap
}

// tuple is the compact two-element wire form of an item.
type tuple [2]string

// Encode serializes p into the compact URL-safe form.
// Empty buckets are kept as empty arrays so they survive a round trip.
func Encode(p Payload) (string, error) {
	var items domain.ItemsMap
	if p != nil {
		items = p.Unwrap()
	}

	compact := make(map[string][]tuple, len(items))
	for date, bucket := range items {
		tuples := make([]tuple, 0, len(bucket))
		for _, it := range bucket {
			tuples = append(tuples, tuple{it.ID, it.Text})
		}
		compact[date] = tuples
	}

	raw, err := json.Marshal(compact)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode reverses Encode and normalizes any of the three accepted shapes
// into the canonical ItemsMap. It never panics on bad input; failures are
// reported as ErrEmptyState or a wrapped ErrMalformedState.
func Decode(s string) (domain.ItemsMap, error) {
	raw, err := unbase64(s)
	if err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrMalformedState, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedState)
	}

	ws, err := classify(top)
	if err != nil {
		return nil, err
	}
	return normalize(ws), nil
}

// unbase64 strips transport noise and accepts both base64 alphabets, padded
// or not. Links pasted from chat clients often arrive percent-escaped.
func unbase64(s string) ([]byte, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if strings.Contains(s, "%") {
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ':
			// A '+' that went through form decoding.
			return '+'
		case '\n', '\r', '\t':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, ErrEmptyState
	}

	trimmed := strings.TrimRight(s, "=")
	for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.RawURLEncoding} {
		if raw, err := enc.DecodeString(trimmed); err == nil {
			return raw, nil
		}
	}
	return nil, fmt.Errorf("%w: not base64", ErrMalformedState)
}
