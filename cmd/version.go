package cmd

import (
	"runtime"
	"strings"

	"github.com/n-v-nam/github-quickactions/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout())
			p.Header("quickactions")
			p.Field("version", safeValue(version.Version, "dev"))
			p.Field("commit", safeValue(version.CommitHash, "unknown"))
			p.Field("built", safeValue(version.BuildDate, "unknown"))
			p.Field("go", runtime.Version())
			return nil
		},
	}
}

func safeValue(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
