// Package accept converts the value of an HTTP "Accept" header into
// an ordered list of media types that can be given to a negotiator.
package accept

import (
	"errors"

	"github.com/samber/lo"
	"goyave.dev/negotiator/mediatype"
	"goyave.dev/negotiator/slog"
	"goyave.dev/negotiator/util/httputil"
)

// Any the media type used when the Accept header is empty.
const Any = "*/*"

// Options for `ParseWithOptions`.
type Options struct {
	// KeepZeroQuality keeps the media types having a quality value of 0 instead
	// of discarding them. These media types are explicitly refused by the client.
	KeepZeroQuality bool

	// Logger if not nil, discarded and malformed media types are logged at debug level.
	Logger *slog.Logger
}

// Parse the given Accept header value using the default options.
//
// The returned media types are sorted by descending quality value, then by
// descending specificity. Media types with a quality value of 0 are discarded.
// The quality value parameter is removed before the media types are parsed.
//
// An empty header means any media type is accepted: a single "*/*" media type
// is returned.
//
// Malformed media types are skipped. If there are any, a non-nil error joining
// the parse error of each of them is returned alongside the valid media types.
func Parse(header string) ([]*mediatype.ContentType, error) {
	return ParseWithOptions(header, Options{})
}

// ParseWithOptions is like `Parse` with the given options.
func ParseWithOptions(header string, opts Options) ([]*mediatype.ContentType, error) {
	values := httputil.ParseMultiValuesHeader(header)
	if len(values) == 0 {
		return []*mediatype.ContentType{mediatype.MustParse(Any)}, nil
	}

	if !opts.KeepZeroQuality {
		values = lo.Filter(values, func(v httputil.HeaderValue, _ int) bool {
			if v.Priority > 0 {
				return true
			}
			opts.debug("discarding refused media type", "mimetype", v.Value)
			return false
		})
	}

	errs := []error{}
	types := lo.FilterMap(values, func(v httputil.HeaderValue, _ int) (*mediatype.ContentType, bool) {
		ct, err := mediatype.Parse(v.Value)
		if err != nil {
			opts.debug("skipping malformed media type", "mimetype", v.Value, "error", err.Error())
			errs = append(errs, err)
			return nil, false
		}
		return ct, true
	})

	if len(errs) > 0 {
		return types, errors.Join(errs...)
	}
	return types, nil
}

func (o Options) debug(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Debug(msg, args...)
	}
}

// Values returns the mimetypes of the given media types.
func Values(types []*mediatype.ContentType) []string {
	return lo.Map(types, func(ct *mediatype.ContentType, _ int) string {
		return ct.Mimetype()
	})
}
