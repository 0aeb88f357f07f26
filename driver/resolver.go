package driver

import (
	"regexp"
	"strings"
)

// resolveReference maps a user-supplied image, flavor or network
// reference to a provider id. Matching order: exact id, exact name,
// then, when the reference is wrapped in slashes, the first candidate
// whose name matches the pattern, in listing order. Anything else
// passes through unchanged for the provider to judge.
func resolveReference(ref string, candidates []Resource) string {
	for _, c := range candidates {
		if c.ID == ref {
			return c.ID
		}
	}
	for _, c := range candidates {
		if c.Name == ref {
			return c.ID
		}
	}
	if pattern, ok := regexRef(ref); ok {
		if re, err := regexp.Compile(pattern); err == nil {
			for _, c := range candidates {
				if re.MatchString(c.Name) {
					return c.ID
				}
			}
		}
	}
	return ref
}

// regexRef reports whether ref is a /.../-delimited pattern.
func regexRef(ref string) (string, bool) {
	if len(ref) >= 2 && strings.HasPrefix(ref, "/") && strings.HasSuffix(ref, "/") {
		return ref[1 : len(ref)-1], true
	}
	return "", false
}
