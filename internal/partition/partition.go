// Package partition classifies the entries of a schema document into app and
// directus collections by naming convention and rewrites their names.
package partition

import (
	"strings"

	"github.com/thellimist/directus-typegen/internal/oas"
)

const (
	// itemsPrefix marks user-defined collections in the Directus OpenAPI
	// output; everything else is a built-in system collection.
	itemsPrefix = "Items"

	appPrefix      = "App"
	directusPrefix = "Directus"

	// metadataKey never gets a standalone alias.
	metadataKey = "x-metadata"
)

// Property is one line of an aggregate type literal.
type Property struct {
	// Name is the rewritten collection name used as the property key.
	Name string
	// Key is the original schema-entry key.
	Key string
}

// Alias is a standalone exported type alias for one schema entry.
type Alias struct {
	Name string
	Key  string
}

// Result holds the classified entries, each list in document order.
type Result struct {
	App      []Property
	Directus []Property
	Aliases  []Alias
}

// Classify partitions every schema entry by its key. Keys beginning with
// "Items" become app collections with that prefix rewritten to "App"; all
// other keys become directus collections with "Directus" prepended. Every
// entry except the reserved metadata key also yields an exported alias.
func Classify(doc *oas.Document) Result {
	var res Result
	for pair := doc.Schemas.Oldest(); pair != nil; pair = pair.Next() {
		key := pair.Key

		var name string
		if strings.HasPrefix(key, itemsPrefix) {
			name = appPrefix + strings.TrimPrefix(key, itemsPrefix)
			res.App = append(res.App, Property{Name: name, Key: key})
		} else {
			name = directusPrefix + key
			res.Directus = append(res.Directus, Property{Name: name, Key: key})
		}

		if key != metadataKey {
			res.Aliases = append(res.Aliases, Alias{Name: name, Key: key})
		}
	}
	return res
}
