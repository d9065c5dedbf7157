package url

import (
	"net/url"
	"strings"
)

const (
	// UniqueIDParam carries the suspended tab identity on the placeholder page.
	UniqueIDParam = "uniqueId"
	// legacyIDParam carried the browser tab id in older placeholders.
	legacyIDParam = "id"
)

// Placeholder builds and recognizes placeholder page URLs.
type Placeholder struct {
	base *url.URL
	raw  string
}

// NewPlaceholder parses the placeholder base URL (e.g. http://127.0.0.1:7717/suspended).
func NewPlaceholder(base string) (Placeholder, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return Placeholder{}, err
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return Placeholder{base: parsed, raw: parsed.String()}, nil
}

// Base returns the placeholder page URL without query.
func (p Placeholder) Base() string {
	return p.raw
}

// URL returns the placeholder URL for a unique id.
func (p Placeholder) URL(uniqueID string) string {
	q := url.Values{}
	q.Set(UniqueIDParam, uniqueID)
	return p.raw + "?" + q.Encode()
}

// Matches reports whether raw points at the placeholder page, whatever its query.
func (p Placeholder) Matches(raw string) bool {
	if p.base == nil {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Scheme, p.base.Scheme) &&
		strings.EqualFold(parsed.Host, p.base.Host) &&
		strings.TrimSuffix(parsed.Path, "/") == strings.TrimSuffix(p.base.Path, "/")
}

// Parse returns the unique id carried by a placeholder URL.
// A placeholder carrying only the legacy browser tab id is not resolvable and returns false.
func (p Placeholder) Parse(raw string) (string, bool) {
	if !p.Matches(raw) {
		return "", false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	id := parsed.Query().Get(UniqueIDParam)
	return id, id != ""
}

// IsLegacy reports whether raw is a placeholder that only carries the old browser tab id.
func (p Placeholder) IsLegacy(raw string) bool {
	if !p.Matches(raw) {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	q := parsed.Query()
	return q.Get(UniqueIDParam) == "" && q.Get(legacyIDParam) != ""
}

// SchemeAndPath returns the lower-cased scheme and the path of the base URL.
func (p Placeholder) SchemeAndPath() (string, string) {
	if p.base == nil {
		return "", ""
	}
	return strings.ToLower(p.base.Scheme), p.base.Path
}
