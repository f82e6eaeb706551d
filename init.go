package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/stylegen/internal/config"
)

const (
	sentinelStart = "# stylegen:start"
	sentinelEnd   = "# stylegen:end"
)

// newInitCmd implements the `stylegen init` subcommand, which writes (or
// updates) the default configuration block in a .stylegen.yaml file.
func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [path-to-" + config.FileName + "]",
		Short: "Write the default configuration block",
		Long: `Write the default stylegen configuration to a ` + config.FileName + ` file. The block
is wrapped in sentinel comments so it can be updated in place on subsequent
runs without touching surrounding content. Creates the file if it does not
exist.

The path defaults to ./` + config.FileName + `.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			section, err := generateSection()
			if err != nil {
				return err
			}

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(stdout, section)
				return nil
			}

			path := config.FileName
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			_, _ = fmt.Fprintf(stderr, "wrote stylegen configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

// generateSection returns the sentinel-wrapped default configuration block.
func generateSection() (string, error) {
	body, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}

	header := `# Managed by "stylegen init". Edit values freely; rerunning init resets them.
# Environment variables (STYLEGEN_FORMAT, STYLEGEN_MARKERS_STYLEABLE, ...) override this file.
`
	return sentinelStart + "\n" + header + strings.TrimRight(string(body), "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
