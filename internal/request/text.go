package request

import (
	"slices"
	"strings"
)

// ParseEnumeration splits a comma-separated list, trimming whitespace
// and dropping empty and repeated items. Order of first mention is kept.
//
//	ParseEnumeration(" web, db,,web ") // ["web", "db"]
func ParseEnumeration(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" || slices.Contains(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// RemoveSuffixes strips the first matching suffix from every name.
// Names consisting only of a suffix are kept unchanged.
//
//	RemoveSuffixes([]string{"web.example.com"}, []string{".example.com"}) // ["web"]
func RemoveSuffixes(names, suffixes []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		for _, suffix := range suffixes {
			if suffix != "" && strings.HasSuffix(name, suffix) && name != suffix {
				name = strings.TrimSuffix(name, suffix)
				break
			}
		}
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
