package names

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed data/botw_hashed_names.txt
var embeddedHashedNames string

//go:embed data/botw_numbered_names.txt
var embeddedNumberedNames string

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the process-wide name table, lazily initialized from the
// embedded recovery data on first use. It is safe to call concurrently;
// every caller observes the same fully-initialized table.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = New()
		for _, line := range splitNonEmptyLines(embeddedHashedNames) {
			defaultTable.AddName(line)
		}
		defaultTable.SetNumberedTemplates(splitNonEmptyLines(embeddedNumberedNames))
	})
	return defaultTable
}

func splitNonEmptyLines(s string) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
