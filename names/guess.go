package names

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/switchtools/bgpak/internal/namehash"
)

// strippableParentSuffixes are the plural/collection suffixes step 2 of the
// guess pipeline strips from a known parent name before retrying step 1.
var strippableParentSuffixes = []string{"s", "es", "List"}

// placeholderPattern matches the single numeric placeholder a numbered-name
// template is allowed to contain: %d, %02d, %03d, %04d, %u, or %02u.
var placeholderPattern = regexp.MustCompile(`%0?[0-9]*[du]`)

func formatsFor(prefix string, index int) []string {
	return []string{
		fmt.Sprintf("%s%d", prefix, index),
		fmt.Sprintf("%s%02d", prefix, index),
		fmt.Sprintf("%s%03d", prefix, index),
		fmt.Sprintf("%s_%d", prefix, index),
		fmt.Sprintf("%s_%02d", prefix, index),
		fmt.Sprintf("%s_%03d", prefix, index),
	}
}

func expandTemplate(tmpl string, index int) (string, bool) {
	loc := placeholderPattern.FindStringIndex(tmpl)
	if loc == nil {
		return "", false
	}
	// %u behaves identically to %d for non-negative indices; Go's fmt has
	// no %u verb, so normalize before formatting.
	verb := strings.Replace(tmpl[loc[0]:loc[1]], "u", "d", 1)
	return tmpl[:loc[0]] + fmt.Sprintf(verb, index) + tmpl[loc[1]:], true
}

func (t *Table) guess(hash uint32, index int, parentName string, parentKnown bool) (string, bool) {
	matches := func(candidate string) bool { return namehash.Aamp(candidate) == hash }

	// Step 1: parent name (if known) plus the "Children"/"Child" fallbacks.
	parents := make([]string, 0, 3)
	if parentKnown {
		parents = append(parents, parentName)
	}
	parents = append(parents, "Children", "Child")
	for _, p := range parents {
		for _, candidate := range formatsFor(p, index) {
			if matches(candidate) {
				return candidate, true
			}
		}
	}

	// Step 2: strip a plural/collection suffix off the parent name and
	// retry step 1's formats with the stripped prefix.
	if parentKnown {
		for _, suffix := range strippableParentSuffixes {
			if stripped, ok := strings.CutSuffix(parentName, suffix); ok {
				for _, candidate := range formatsFor(stripped, index) {
					if matches(candidate) {
						return candidate, true
					}
				}
			}
		}
	}

	// Step 3: the built-in numbered-name templates, each tried for every
	// index from 0 up to and including index+1.
	for _, tmpl := range t.templatesSnapshot() {
		for i := 0; i <= index+1; i++ {
			if candidate, ok := expandTemplate(tmpl, i); ok && matches(candidate) {
				return candidate, true
			}
		}
	}

	return "", false
}
