// Package naming converts styleable resource identifiers into the member
// names used by generated code.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const androidPrefix = "android_"

// Normalize turns a resource identifier such as "Paris_View_android_padding"
// into a lower camel case name ("padding") given the styleable group
// ("Paris_View").
//
// The group prefix and then the "android_" prefix are removed. Each
// character that follows an underscore in the remaining string is upper
// cased and underscores are dropped. The result always starts lower case.
func Normalize(raw, group string) string {
	// The bare group name has no member part left.
	if group != "" && raw == group {
		return ""
	}
	name := strings.TrimPrefix(raw, group+"_")
	name = strings.TrimPrefix(name, androidPrefix)

	var b strings.Builder
	b.Grow(len(name))
	prevUnderscore := false
	for _, r := range name {
		if r == '_' {
			prevUnderscore = true
			continue
		}
		if prevUnderscore {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevUnderscore = false
	}

	return decapitalize(b.String())
}

func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || !unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
