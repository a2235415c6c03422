// Package assemble combines the base declaration block with the synthesized
// aggregate collection types into the final output text.
package assemble

import (
	"fmt"
	"strings"

	"github.com/thellimist/directus-typegen/internal/partition"
)

// Options control the synthesized aggregate type declarations.
type Options struct {
	AppTypeName      string
	DirectusTypeName string
	AllTypeName      string
	// Global wraps the whole output in a `declare global { ... }` block so
	// consumers get ambient declarations instead of module exports.
	Global bool
}

// Assemble produces the final declaration text: the base block, the app and
// directus aggregates, the all-collections intersection, and the per-entry
// aliases, each block separated by a blank line.
func Assemble(base string, res partition.Result, opts Options) string {
	blocks := []string{
		strings.TrimRight(base, "\n"),
		typeLiteral(opts.AppTypeName, res.App),
		typeLiteral(opts.DirectusTypeName, res.Directus),
		fmt.Sprintf("export type %s = %s & %s;", opts.AllTypeName, opts.DirectusTypeName, opts.AppTypeName),
	}
	if len(res.Aliases) > 0 {
		lines := make([]string, len(res.Aliases))
		for i, a := range res.Aliases {
			lines[i] = fmt.Sprintf("export type %s = components[%q][%q];", a.Name, "schemas", a.Key)
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	out := strings.Join(blocks, "\n\n") + "\n"
	if opts.Global {
		out = "declare global {\n\n" + out + "\n}\n"
	}
	return out
}

// typeLiteral renders one aggregate type with a property per collection.
// An empty category yields an empty type literal.
func typeLiteral(name string, props []partition.Property) string {
	if len(props) == 0 {
		return fmt.Sprintf("export type %s = {};", name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "export type %s = {\n", name)
	for _, p := range props {
		fmt.Fprintf(&b, "  %q: components[%q][%q];\n", p.Name, "schemas", p.Key)
	}
	b.WriteString("};")
	return b.String()
}
