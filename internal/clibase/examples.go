// internal/clibase/examples.go
package clibase

import "strings"

// Examples formats quickstart lines for cobra's Example field.
func Examples(lines ...string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  ")
		b.WriteString(l)
	}
	return b.String()
}
