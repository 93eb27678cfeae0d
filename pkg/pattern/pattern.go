package pattern

import (
	"regexp"
	"sort"
	"strings"
)

// LemmaPlaceholder is the placeholder name that always resolves to the lemma.
const LemmaPlaceholder = "~"

// tokenRe matches, in order of preference, an escaped brace or a placeholder.
// Group 1 holds the placeholder name and is empty for escapes.
var tokenRe = regexp.MustCompile(`\{\{|\}\}|\{([^{}]+)\}`)

// StemSource is a read-only lookup of stem values by exact name.
// An empty value is a defined stem and is distinct from a missing one.
type StemSource interface {
	Lookup(name string) (string, bool)
}

// StemMap is the plain map implementation of StemSource.
type StemMap map[string]string

// Lookup implements StemSource.
func (m StemMap) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Compile normalizes pattern and substitutes every placeholder in it.
func Compile(pattern string, stems StemSource, term string) string {
	return Substitute(NormalizePattern(pattern), stems, term)
}

// Substitute expands pattern exactly as written, without normalizing it first.
// A nil stems behaves like an empty mapping.
func Substitute(pattern string, stems StemSource, term string) string {
	matches := tokenRe.FindAllStringSubmatchIndex(pattern, -1)
	if len(matches) == 0 {
		return pattern
	}

	var b strings.Builder
	b.Grow(len(pattern) + len(term))
	last := 0
	for _, m := range matches {
		b.WriteString(pattern[last:m[0]])
		last = m[1]

		if m[2] < 0 {
			// "{{" or "}}"
			b.WriteByte(pattern[m[0]])
			continue
		}
		b.WriteString(resolve(pattern[m[2]:m[3]], stems, term))
	}
	b.WriteString(pattern[last:])
	return b.String()
}

func resolve(name string, stems StemSource, term string) string {
	if name == LemmaPlaceholder || stems == nil {
		return term
	}
	if v, ok := stems.Lookup(name); ok {
		return v
	}
	return term
}

// CollectStems adds the name of every stem referenced by pattern to into.
// The lemma placeholder is not a stem and is never collected.
func CollectStems(pattern string, into map[string]struct{}) {
	for _, m := range tokenRe.FindAllStringSubmatchIndex(pattern, -1) {
		if m[2] < 0 {
			continue
		}
		name := pattern[m[2]:m[3]]
		if name == LemmaPlaceholder {
			continue
		}
		into[name] = struct{}{}
	}
}

// StemNames returns the distinct stem names referenced by pattern, sorted.
func StemNames(pattern string) []string {
	set := make(map[string]struct{})
	CollectStems(pattern, set)
	return SortedNames(set)
}

// SortedNames flattens a stem name set into a sorted slice.
func SortedNames(set map[string]struct{}) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizePattern trims surrounding whitespace. Inner whitespace is significant.
func NormalizePattern(pattern string) string {
	return strings.TrimSpace(pattern)
}

// NormalizeStemName trims a stem name and collapses inner whitespace runs to a
// single space.
func NormalizeStemName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidStemName reports whether name can be used as a stem name.
func ValidStemName(name string) bool {
	return name != "" && !strings.ContainsAny(name, "{}")
}
