package site

import "strings"

// Tags is the parsed form of the dump's "<a><b><c>" tag string.
type Tags []string

// ParseTags splits a bracketed tag string into its tokens in order.
// Empty tokens are dropped; malformed input yields whatever tokens survive.
func ParseTags(raw string) Tags {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	raw = strings.TrimPrefix(raw, "<")
	raw = strings.TrimSuffix(raw, ">")
	parts := strings.Split(raw, "><")
	out := make(Tags, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String restores the "<a><b>" wire format.
func (t Tags) String() string {
	var b strings.Builder
	for _, tag := range t {
		b.WriteByte('<')
		b.WriteString(tag)
		b.WriteByte('>')
	}
	return b.String()
}

// Has reports whether tag is one of the tokens.
func (t Tags) Has(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}
