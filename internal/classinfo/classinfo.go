// Package classinfo extracts the base styleable description of a class from
// its top-level marker.
package classinfo

import (
	"strconv"
	"strings"

	"github.com/phobologic/stylegen/internal/model"
)

// flagArgs maps boolean marker arguments to model flags.
var flagArgs = map[string]model.Flags{
	"emptyDefaultStyle": model.FlagEmptyDefaultStyle,
}

// Extract reads the resource group name and flags declared on the class's
// marker. A marker without a value yields an empty resource name.
func Extract(mc model.MarkedClass) model.BaseStyleableInfo {
	info := model.BaseStyleableInfo{Class: mc.Class}

	if v, ok := mc.Marker.Arg("value"); ok {
		info.StyleableResourceName = Unquote(v)
	}

	for _, arg := range mc.Marker.Args {
		flag, ok := flagArgs[arg.Key]
		if !ok {
			continue
		}
		if b, err := strconv.ParseBool(strings.TrimSpace(arg.Value)); err == nil && b {
			info.Flags |= flag
		}
	}

	return info
}

// Unquote returns the contents of a string literal, or the trimmed text
// unchanged if it is not a literal.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s[1 : len(s)-1]
}
