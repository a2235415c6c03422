// Package typegen converts an OpenAPI schema document into TypeScript type
// declarations. It emits the same shape as the common openapi-to-typescript
// converters: a single `components` interface with one entry per schema.
package typegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thellimist/directus-typegen/internal/oas"
)

const refPrefix = "#/components/schemas/"

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Components renders the base declaration block for the document: an exported
// `components` interface holding every schema entry, in document order.
func Components(doc *oas.Document) string {
	var b strings.Builder
	b.WriteString("export interface components {\n")
	b.WriteString("  schemas: {\n")
	for pair := doc.Schemas.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&b, "    %s: %s;\n", propertyName(pair.Key), tsType(pair.Value, "    "))
	}
	b.WriteString("  };\n")
	b.WriteString("}\n")
	return b.String()
}

// tsType maps a schema to a TypeScript type expression. indent is the
// indentation of the line the expression starts on; nested object literals
// indent one level deeper.
func tsType(s *oas.Schema, indent string) string {
	if s == nil {
		return "unknown"
	}

	typ := baseType(s, indent)
	if s.Nullable {
		typ += " | null"
	}
	return typ
}

func baseType(s *oas.Schema, indent string) string {
	if s.Ref != "" {
		return refType(s.Ref)
	}
	if len(s.OneOf) > 0 {
		parts := make([]string, len(s.OneOf))
		for i, sub := range s.OneOf {
			parts[i] = tsType(sub, indent)
		}
		return strings.Join(parts, " | ")
	}

	switch s.Type {
	case "string":
		return "string"
	case "integer", "number":
		return "number"
	case "boolean":
		return "boolean"
	case "array":
		item := tsType(s.Items, indent)
		if strings.Contains(item, " | ") {
			return "(" + item + ")[]"
		}
		return item + "[]"
	case "object":
		return objectLiteral(s, indent)
	default:
		return "unknown"
	}
}

func objectLiteral(s *oas.Schema, indent string) string {
	if s.Properties == nil || s.Properties.Len() == 0 {
		return "Record<string, unknown>"
	}

	inner := indent + "  "
	var b strings.Builder
	b.WriteString("{\n")
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		optional := "?"
		if s.IsRequired(pair.Key) {
			optional = ""
		}
		fmt.Fprintf(&b, "%s%s%s: %s;\n", inner, propertyName(pair.Key), optional, tsType(pair.Value, inner))
	}
	b.WriteString(indent + "}")
	return b.String()
}

// refType rewrites a local $ref into an indexed access on the components
// interface.
func refType(ref string) string {
	name := strings.TrimPrefix(ref, refPrefix)
	return fmt.Sprintf("components[%q][%q]", "schemas", name)
}

// propertyName quotes names that are not valid TypeScript identifiers.
func propertyName(name string) string {
	if identRe.MatchString(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}
