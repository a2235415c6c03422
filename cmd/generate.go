package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thellimist/directus-typegen/internal/assemble"
	"github.com/thellimist/directus-typegen/internal/auth"
	"github.com/thellimist/directus-typegen/internal/directus"
	"github.com/thellimist/directus-typegen/internal/partition"
	"github.com/thellimist/directus-typegen/internal/typegen"
)

var (
	flagHost             string
	flagEmail            string
	flagPassword         string
	flagPasswordIsToken  bool
	flagAppTypeName      string
	flagDirectusTypeName string
	flagAllTypeName      string
	flagSpecOutFile      string
	flagOutFile          string
	flagGlobal           bool
	flagVerbose          bool
	flagQuiet            bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate collection types from a Directus instance",
	Long: `Generate TypeScript collection types from a Directus instance.

directus-typegen authenticates against the instance, fetches its OpenAPI
schema, and writes a declaration file with one type per collection plus
three aggregate types combining them.

Examples:
  # With email/password login
  directus-typegen generate --host https://directus.example.com \
    --email admin@example.com --password secret --outFile types.ts

  # With a static token
  directus-typegen generate --host https://directus.example.com \
    --password $TOKEN --passwordIsStaticToken --outFile types.ts

  # Also dump the raw OpenAPI document
  directus-typegen generate --host https://directus.example.com \
    --email admin@example.com --password secret \
    --specOutFile spec.json --outFile types.ts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&flagHost, "host", "", "base URL of the Directus instance")
	f.StringVar(&flagEmail, "email", "", "login email (ignored with --passwordIsStaticToken)")
	f.StringVar(&flagPassword, "password", "", "login password, or the token itself with --passwordIsStaticToken")
	f.BoolVar(&flagPasswordIsToken, "passwordIsStaticToken", false, "treat --password as a static access token; skip the login call")
	f.StringVar(&flagAppTypeName, "appTypeName", "AppCollections", "name of the aggregate type for user-defined collections")
	f.StringVar(&flagDirectusTypeName, "directusTypeName", "DirectusCollections", "name of the aggregate type for system collections")
	f.StringVar(&flagAllTypeName, "allTypeName", "Collections", "name of the combined aggregate type")
	f.StringVar(&flagSpecOutFile, "specOutFile", "", "optional path for a dump of the fetched OpenAPI document (JSON, or YAML by extension)")
	f.StringVar(&flagOutFile, "outFile", "", "path of the generated declaration file")
	f.BoolVar(&flagGlobal, "global", false, "wrap the output in a declare global block")
	f.BoolVar(&flagVerbose, "verbose", false, "show detailed progress during generation")
	f.BoolVar(&flagQuiet, "quiet", false, "suppress all output except errors")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := validateFlags(); err != nil {
		return err
	}
	ctx := context.Background()

	verbose("Resolving credentials...")
	provider := auth.NewProvider(flagHost, flagEmail, flagPassword, flagPasswordIsToken)
	ts, err := provider.TokenSource(ctx)
	if err != nil {
		return err
	}

	verbose("Fetching OpenAPI spec from %s...", flagHost)
	client := directus.NewClient(ctx, flagHost, ts)
	doc, err := client.FetchSpec(ctx)
	if err != nil {
		var apiErr *directus.APIError
		if errors.As(err, &apiErr) {
			for _, e := range apiErr.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "server error: %s\n", e)
			}
		}
		return err
	}
	verbose("Fetched %q version %s (%d schema entries)", doc.Info.Title, doc.Info.Version, doc.Schemas.Len())

	if flagSpecOutFile != "" {
		if err := writeSpecDump(flagSpecOutFile, doc.Raw); err != nil {
			return err
		}
		verbose("Wrote spec dump to %s", flagSpecOutFile)
	}

	base := typegen.Components(doc)
	res := partition.Classify(doc)

	out := assemble.Assemble(base, res, assemble.Options{
		AppTypeName:      flagAppTypeName,
		DirectusTypeName: flagDirectusTypeName,
		AllTypeName:      flagAllTypeName,
		Global:           flagGlobal,
	})

	if err := os.WriteFile(flagOutFile, []byte(out), 0644); err != nil {
		return fmt.Errorf("write %s: %w", flagOutFile, err)
	}

	if !flagQuiet {
		fmt.Printf("Generated %d app and %d directus collection types\n", len(res.App), len(res.Directus))
		fmt.Printf("Output: %s\n", flagOutFile)
	}
	return nil
}

// writeSpecDump serializes the raw document to path, pretty-printed JSON by
// default or YAML when the extension says so.
func writeSpecDump(path string, raw []byte) error {
	var out []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("write spec dump: %w", err)
		}
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("write spec dump: %w", err)
		}
		out = data
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return fmt.Errorf("write spec dump: %w", err)
		}
		buf.WriteByte('\n')
		out = buf.Bytes()
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write spec dump: %w", err)
	}
	return nil
}

// verbose prints a message if --verbose is set.
func verbose(format string, args ...interface{}) {
	if flagVerbose {
		fmt.Printf(format+"\n", args...)
	}
}

func validateFlags() error {
	if flagHost == "" {
		return fmt.Errorf("provide --host to specify the Directus instance")
	}
	if flagOutFile == "" {
		return fmt.Errorf("provide --outFile for the generated declarations")
	}
	if flagPassword == "" {
		return fmt.Errorf("provide --password (the login password, or a token with --passwordIsStaticToken)")
	}
	if !flagPasswordIsToken && flagEmail == "" {
		return fmt.Errorf("provide --email for login, or use --passwordIsStaticToken")
	}
	if flagVerbose && flagQuiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	return nil
}
