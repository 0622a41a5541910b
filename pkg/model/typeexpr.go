package model

import (
	"strings"
	"unicode"
)

// IsContainerType reports whether the IDL type expression is wrapped in
// sequence<> or map<>. References through a container do not require the
// element type to be complete, which is what makes them soft edges.
func IsContainerType(expr string) bool {
	s := strings.TrimSpace(expr)
	return strings.HasPrefix(s, "sequence<") || strings.HasPrefix(s, "map<")
}

// TypeNames extracts the type names referenced by an IDL type expression,
// in order of appearance. Bounds and the sequence/map keywords are skipped:
//
//	TypeNames("sequence<core::Point, 10>") // ["core::Point"]
//	TypeNames("map<string, Item>")         // ["string", "Item"]
func TypeNames(expr string) []string {
	fields := strings.FieldsFunc(expr, func(r rune) bool {
		return r == '<' || r == '>' || r == ','
	})
	var names []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == "sequence" || f == "map" || isNumber(f) {
			continue
		}
		names = append(names, f)
	}
	return names
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// SplitQualified splits "a::b::C" into its segments.
func SplitQualified(name string) []string {
	return strings.Split(name, Separator)
}

// RewriteTypeNames returns expr with every type name replaced by fn(name).
// Keywords, bounds, delimiters and spacing are kept:
//
//	RewriteTypeNames("sequence<U, 4>", rename) // "sequence<core::X, 4>" when rename("U") == "core::X"
func RewriteTypeNames(expr string, fn func(name string) string) string {
	var b strings.Builder
	start := 0
	flush := func(end int) {
		seg := expr[start:end]
		name := strings.TrimSpace(seg)
		if name == "" || name == "sequence" || name == "map" || isNumber(name) {
			b.WriteString(seg)
			return
		}
		lead := strings.Index(seg, name)
		b.WriteString(seg[:lead])
		b.WriteString(fn(name))
		b.WriteString(seg[lead+len(name):])
	}
	for i, r := range expr {
		if r == '<' || r == '>' || r == ',' {
			flush(i)
			b.WriteRune(r)
			start = i + 1
		}
	}
	flush(len(expr))
	return b.String()
}
