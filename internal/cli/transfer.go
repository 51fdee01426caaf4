package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dtg01100/touch-settings/internal/config"
	"github.com/dtg01100/touch-settings/internal/store"
	"github.com/dtg01100/touch-settings/pkg/utils"
)

var transferFormat string

var exportCmd = &cobra.Command{
	Use:   "export <domain> [file]",
	Short: "Write the full settings record of a domain",
	Long: `Write the full settings record of a domain, including data the form
does not show such as movement groups. The format follows the file
extension (.yaml, .yml or .json) unless --format is given. Without a file
the record is written to standard output.`,
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeDomains,
	RunE:              runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <domain> <file>",
	Short: "Replace settings from an exported file",
	Long: `Read a record written by export and store it. Keys missing from the
file keep their current value.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeDomains,
	RunE:              runImport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVarP(&transferFormat, "format", "f", "", "file format: yaml or json")
	}
}

// resolveFormat picks the format from the flag, then from path.
func resolveFormat(path string) (store.Format, error) {
	if transferFormat != "" {
		return store.ParseFormat(transferFormat)
	}
	if path == "" {
		if outputJSON {
			return store.JSON, nil
		}
		return store.YAML, nil
	}
	return store.FormatFromPath(path)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, p, err := loadPlugin(args[0])
	if err != nil {
		return err
	}
	var path string
	if len(args) == 2 {
		path = utils.ExpandHome(args[1])
	}
	format, err := resolveFormat(path)
	if err != nil {
		return err
	}

	rec, err := p.Export(cmd.Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := store.Encode(&buf, format, rec); err != nil {
		return err
	}

	if path == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	rememberFile(a.Config, path)
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s settings to %s\n", p.Title(), path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	a, p, err := loadPlugin(args[0])
	if err != nil {
		return err
	}
	path := utils.ExpandHome(args[1])
	format, err := resolveFormat(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := p.Import(cmd.Context(), store.Decoder(bytes.NewReader(data), format)); err != nil {
		return err
	}
	rememberFile(a.Config, path)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s settings from %s\n", p.Title(), path)
	return nil
}

// rememberFile records path in the recent files of cfg. A failed config
// write does not fail the transfer.
func rememberFile(cfg *config.Config, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.AddRecentFile(path)
	if err := cfg.Save(); err != nil {
		loadLogger().Warn("failed to record recent file", "path", path, "error", err)
	}
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently exported and imported files",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), cfg.RecentFiles)
	}
	if len(cfg.RecentFiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recent files.")
		return nil
	}
	for _, f := range cfg.RecentFiles {
		fmt.Fprintln(cmd.OutOrStdout(), f)
	}
	return nil
}
