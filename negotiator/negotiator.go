// Package negotiator selects the content type to use for a response
// from the ones requested by the client and the ones the server can produce.
package negotiator

import (
	"slices"

	"github.com/samber/lo"
	"goyave.dev/negotiator/config"
	"goyave.dev/negotiator/mediatype"
	"goyave.dev/negotiator/util/errors"
)

// Negotiator holds the list of content types available on the serving side.
// This list is fixed at creation.
//
// A Negotiator is safe for concurrent use.
type Negotiator struct {
	available []*mediatype.ContentType
}

// New create a new Negotiator from the given available content types.
// The order of the content types is preserved. Nil elements are ignored.
func New(available ...*mediatype.ContentType) *Negotiator {
	return &Negotiator{
		available: lo.Filter(available, func(ct *mediatype.ContentType, _ int) bool {
			return ct != nil
		}),
	}
}

// FromConfig create a new Negotiator using the content types listed in
// the "negotiation.available" config entry.
func FromConfig(cfg *config.Config) (*Negotiator, error) {
	available, err := mediatype.ParseAll(cfg.GetStringSlice("negotiation.available")...)
	if err != nil {
		return nil, errors.Errorf("invalid \"negotiation.available\" config entry: %w", err)
	}
	return New(available...), nil
}

// Available returns a copy of the available content types.
func (n *Negotiator) Available() []*mediatype.ContentType {
	return slices.Clone(n.available)
}

// Negotiate returns the first requested content type matching any of
// the available content types. The requested content types are expected
// to be ordered by preference, the most preferred first.
//
// The returned value is the requested content type, not the available one.
// Use `Match()` to get both. Returns nil if none of the requested content
// types can be satisfied.
func (n *Negotiator) Negotiate(requested []*mediatype.ContentType) *mediatype.ContentType {
	ct, _ := n.Match(requested)
	return ct
}

// Match is like `Negotiate` but also returns the first available content type
// the negotiated content type matched.
func (n *Negotiator) Match(requested []*mediatype.ContentType) (*mediatype.ContentType, *mediatype.ContentType) {
	for _, r := range requested {
		if r == nil {
			continue
		}
		if available, ok := lo.Find(n.available, r.Matches); ok {
			return r, available
		}
	}
	return nil, nil
}
