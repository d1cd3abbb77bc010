// Package projection maps store rows onto the content types. Every function
// here is pure: no I/O, no clock, no shared state.
package projection

import (
	"regexp"
	"strconv"
	"strings"
)

// FallbackSlug is used when an item has no usable title.
const FallbackSlug = "news"

var (
	nonSlugChars  = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lower-cases s, drops everything except word characters, whitespace
// and hyphens, and collapses separator runs into single hyphens.
func Slugify(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = slugSeparator.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Slug picks the regional title, then the default title, and slugifies it.
// FallbackSlug is returned when neither is set.
func Slug(regional, title string) string {
	target := regional
	if strings.TrimSpace(target) == "" {
		target = title
	}
	if strings.TrimSpace(target) == "" {
		return FallbackSlug
	}
	return Slugify(target)
}

// ItemURL builds /news/{category}/{code}/{slug}.
func ItemURL(categorySlug, code, slug string) string {
	return "/news/" + categorySlug + "/" + code + "/" + slug
}

// FocusURL builds /fokus/{id}/{slug}; a nameless topic keeps the trailing slash.
func FocusURL(id int64, name string) string {
	base := "/fokus/" + strconv.FormatInt(id, 10) + "/"
	if name == "" {
		return base
	}
	return base + Slugify(name)
}

// CategoryURL builds the absolute channel URL on the tenant's subdomain.
func CategoryURL(tenantSlug, domain, slug string) string {
	return "https://" + tenantSlug + "." + domain + "/kanal/" + slug
}
