// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/stylegen/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a Report into TOON format.
func Encode(r *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var styleableRows, attrRows, childRows, styleRows, hookRows [][]string
	for _, s := range r.Styleables {
		class := s.Class.QualifiedName()
		styleableRows = append(styleableRows, []string{
			class,
			s.Class.File,
			strconv.Itoa(s.Class.Line),
			s.StyleableResourceName,
			strings.Join(s.Flags.Names(), " "),
		})
		for _, a := range s.Attrs {
			attrRows = append(attrRows, []string{
				class, a.Name, a.ResourceName, s.AttrMemberName(a), a.ValueType, a.DefaultValue,
			})
		}
		for _, c := range s.Children {
			childRows = append(childRows, []string{
				class, c.Name, c.ResourceName, s.ChildMemberName(c), c.TargetType, c.DefaultValue,
			})
		}
		for _, st := range s.Styles {
			styleRows = append(styleRows, []string{
				class, st.Name, st.StyleName, strconv.FormatBool(st.IsDefault),
			})
		}
		for _, h := range s.BeforeHooks {
			hookRows = append(hookRows, []string{class, h.Name, model.KindBeforeHook.String()})
		}
		for _, h := range s.AfterHooks {
			hookRows = append(hookRows, []string{class, h.Name, model.KindAfterHook.String()})
		}
	}

	parts = append(parts, formatTabular("styleables", []string{"class", "file", "line", "resource", "flags"}, styleableRows))
	parts = append(parts, formatTabular("attrs", []string{"class", "method", "resource", "name", "type", "default"}, attrRows))
	parts = append(parts, formatTabular("children", []string{"class", "field", "resource", "name", "type", "default"}, childRows))
	parts = append(parts, formatTabular("styles", []string{"class", "member", "name", "default"}, styleRows))
	parts = append(parts, formatTabular("hooks", []string{"class", "method", "phase"}, hookRows))

	if len(r.Edges) > 0 {
		var edgeRows [][]string
		for _, e := range r.Edges {
			edgeRows = append(edgeRows, []string{e.Parent, e.Child, e.Member})
		}
		parts = append(parts, formatTabular("edges", []string{"parent", "child", "member"}, edgeRows))
	}

	if len(r.Order) > 0 {
		parts = append(parts, formatList("order", r.Order))
	}

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func formatList(name string, values []string) string {
	encoded := make([]string, len(values))
	for i, v := range values {
		encoded[i] = encodeValue(v)
	}
	return fmt.Sprintf("%s[%d]: %s", name, len(values), strings.Join(encoded, ","))
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
