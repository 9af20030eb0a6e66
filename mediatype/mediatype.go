// Package mediatype parses HTTP media types ("type/subtype; param=value")
// and matches them against each other, with support for wildcards.
//
// Only a single parameter is modeled per media type.
package mediatype

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Wildcard matches any type or subtype.
const Wildcard = "*"

// Parse errors. The error returned by Parse wraps one of these.
var (
	ErrMalformedTypeSubtype = errors.New("mediatype: malformed type/subtype")
	ErrMalformedParameter   = errors.New("mediatype: malformed parameter")
	ErrEmptyParameterKey    = errors.New("mediatype: empty parameter key")
)

// ContentType a parsed media type. ContentType is immutable: its fields can
// only be read through its accessors.
type ContentType struct {
	mimetype string
	typ      string
	subtype  string
	param    *Parameter
}

// Parse the given mimetype.
//
// The input is split on ";", empty segments being discarded. The first
// segment must contain a "/" with non-empty text on both sides. If there
// is a second segment, it must be a "key=value" pair. Empty pieces around
// "=" are discarded too, so "q==1" reads as "q=1" but "q=" is malformed.
// Spaces are removed from the key, which must not be empty. Segments after
// the second one are ignored.
//
// The type and subtype are not trimmed. The original input is retained
// verbatim and returned by `ContentType.Mimetype()`.
func Parse(mimetype string) (*ContentType, error) {
	segments := lo.Compact(strings.Split(mimetype, ";"))
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedTypeSubtype, mimetype)
	}

	typ, subtype, found := strings.Cut(segments[0], "/")
	if !found || typ == "" || subtype == "" {
		return nil, fmt.Errorf("%w: %q", ErrMalformedTypeSubtype, mimetype)
	}

	ct := &ContentType{
		mimetype: mimetype,
		typ:      typ,
		subtype:  subtype,
	}

	if len(segments) > 1 {
		param, err := parseParameter(segments[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, mimetype)
		}
		ct.param = param
	}

	return ct, nil
}

func parseParameter(segment string) (*Parameter, error) {
	pair := lo.Compact(strings.Split(segment, "="))
	if len(pair) != 2 {
		return nil, ErrMalformedParameter
	}

	key := strings.ReplaceAll(pair[0], " ", "")
	if key == "" {
		return nil, ErrEmptyParameterKey
	}

	return &Parameter{Key: key, Value: ParseParameterValue(pair[1])}, nil
}

// MustParse is like Parse but panics if the mimetype cannot be parsed.
// It simplifies the initialization of global variables holding media types.
func MustParse(mimetype string) *ContentType {
	ct, err := Parse(mimetype)
	if err != nil {
		panic(err)
	}
	return ct
}

// ParseAll parses every given mimetype, preserving their order.
// Returns the first parse error encountered.
func ParseAll(mimetypes ...string) ([]*ContentType, error) {
	result := make([]*ContentType, 0, len(mimetypes))
	for _, m := range mimetypes {
		ct, err := Parse(m)
		if err != nil {
			return nil, err
		}
		result = append(result, ct)
	}
	return result, nil
}

// Mimetype returns the original, unparsed input.
func (c *ContentType) Mimetype() string {
	return c.mimetype
}

// Type returns the primary type (text before the "/").
func (c *ContentType) Type() string {
	return c.typ
}

// Subtype returns the secondary type (text after the "/", before any ";").
func (c *ContentType) Subtype() string {
	return c.subtype
}

// Param returns the parameter of this media type. The second return value
// is false if the media type doesn't have a parameter.
func (c *ContentType) Param() (Parameter, bool) {
	if c.param == nil {
		return Parameter{}, false
	}
	return *c.param, true
}

// HasParam returns true if this media type has a parameter.
func (c *ContentType) HasParam() bool {
	return c.param != nil
}

// Matches returns true if this media type matches the other one.
//
// Types and subtypes match if they are equal or if either of them is the
// wildcard "*". Parameters only take part in the comparison when both media
// types have one, in which case the keys and the values must be equal.
// A missing parameter matches any parameter, so "*/*" matches everything.
//
// Matches is symmetric. A nil ContentType never matches.
func (c *ContentType) Matches(other *ContentType) bool {
	if c == nil || other == nil {
		return false
	}
	return matchToken(c.typ, other.typ) &&
		matchToken(c.subtype, other.subtype) &&
		matchParam(c.param, other.param)
}

// Match is a shortcut for `a.Matches(b)`.
func Match(a, b *ContentType) bool {
	return a.Matches(b)
}

func (c *ContentType) String() string {
	return c.mimetype
}

func matchToken(a, b string) bool {
	return a == b || a == Wildcard || b == Wildcard
}

func matchParam(a, b *Parameter) bool {
	// A missing parameter acts as a wildcard.
	if a == nil || b == nil {
		return true
	}
	return a.Equal(*b)
}
