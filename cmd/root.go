package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

func SetVersion(v string) {
	appVersion = v
}

var rootCmd = &cobra.Command{
	Use:   "directus-typegen",
	Short: "Generate TypeScript collection types from a Directus instance",
	Long:  "directus-typegen fetches the OpenAPI schema of a Directus instance and emits TypeScript type declarations for its collections.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.SetVersionTemplate(fmt.Sprintf("directus-typegen v%s\n", appVersion))
}

func Execute() error {
	rootCmd.Version = appVersion
	return rootCmd.Execute()
}
