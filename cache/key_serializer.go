package cache

import (
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "_"

// Segment is one tagged component of a cache key, e.g. "net2" or "p1".
type Segment struct {
	tag   string
	value string
}

// String renders the segment as it appears in a key.
func (s Segment) String() string {
	return s.tag + s.value
}

// Tenant tags the network id.
func Tenant(id int64) Segment { return Int("net", id) }

// Page tags the 1-based page number.
func Page(n int) Segment { return Int("p", int64(n)) }

// Limit tags the page size.
func Limit(n int) Segment { return Int("l", int64(n)) }

// Int tags an integer parameter.
func Int(tag string, v int64) Segment {
	return Segment{tag: tag, value: strconv.FormatInt(v, 10)}
}

// OptionalInt tags an optional integer; an absent value renders as "all"
// so it can never be confused with any concrete id.
func OptionalInt(tag string, v *int64) Segment {
	if v == nil {
		return Segment{tag: tag, value: "all"}
	}
	return Int(tag, *v)
}

// Bool tags a flag as 0 or 1.
func Bool(tag string, v bool) Segment {
	if v {
		return Segment{tag: tag, value: "1"}
	}
	return Segment{tag: tag, value: "0"}
}

var textEscaper = strings.NewReplacer(
	"%", "%25",
	KeySeparator, "%5F",
	" ", "%20",
)

// Text tags free-form input. The separator and whitespace are escaped so a
// text segment can never be read as two segments.
func Text(tag, v string) Segment {
	return Segment{tag: tag, value: textEscaper.Replace(v)}
}

// KeySerializer builds a cache key from an operation name and its tagged parameters.
// Parameters are rendered in the order given, so callers must pass them in a fixed order.
type KeySerializer interface {
	SerializeKey(op string, segments ...Segment) string
}

type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates the serializer producing keys such as
// "news_by_cat_net2_p1_l10_cat5".
func NewDefaultKeySerializer() KeySerializer {
	return defaultKeySerializer{}
}

// SerializeKey joins op and segments with KeySeparator.
func (defaultKeySerializer) SerializeKey(op string, segments ...Segment) string {
	if len(segments) == 0 {
		return op
	}

	var b strings.Builder
	b.WriteString(op)
	for _, seg := range segments {
		b.WriteString(KeySeparator)
		b.WriteString(seg.tag)
		b.WriteString(seg.value)
	}
	return b.String()
}

// TenantPrefix returns the key fragment shared by every entry scoped to a tenant,
// for use with prefix invalidation after the op name.
func TenantPrefix(op string, tenantID int64) string {
	return op + KeySeparator + Tenant(tenantID).String() + KeySeparator
}
