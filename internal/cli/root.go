// Package cli implements the touch-settings command line.
package cli

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dtg01100/touch-settings/internal/app"
	"github.com/dtg01100/touch-settings/internal/config"
	"github.com/dtg01100/touch-settings/internal/plugins"
)

var (
	cfgFile    string
	outputJSON bool
	cliVersion = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "touch-settings",
	Short: "Edit camera, glue and robot settings",
	Long: `touch-settings edits the settings of a dispensing cell: camera, glue
and robot. Without a command it opens the terminal interface; the commands
below inspect and change the stored settings directly.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file or directory (default is $XDG_CONFIG_HOME/touch-settings/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&outputJSON, "json", "j", false, "output in JSON format")
}

// Execute runs the root command with os.Args.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version printed by --version.
func SetVersion(v string) {
	cliVersion = v
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// loadConfig returns the application configuration, using the --config flag
// if provided. This function is injectable for testing purposes.
var loadConfig = func() (*config.Config, error) {
	return config.LoadFile(cfgFile)
}

// loadLogger returns the logger handed to the settings domains.
// This function is injectable for testing purposes.
var loadLogger = func() *slog.Logger {
	return slog.Default()
}

// loadApp builds the settings domains from the configuration.
func loadApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.Devices{}, loadLogger())
}

// loadPlugin builds the settings domains and returns the named one.
func loadPlugin(name string) (*app.App, plugins.Plugin, error) {
	a, err := loadApp()
	if err != nil {
		return nil, nil, err
	}
	p, err := a.Registry.Get(name)
	if err != nil {
		return nil, nil, err
	}
	return a, p, nil
}

func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// completeDomains offers the settings domain names for the first argument.
func completeDomains(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	a, err := loadApp()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var out []string
	for _, p := range a.Registry.All() {
		out = append(out, p.Name()+"\t"+p.Title())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
