package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtg01100/touch-settings/internal/app"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the configuration and the stored settings",
	Long: `Run the pre-flight checks: the configuration is valid, the data
directory is writable and every settings file can be read.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	results := a.PreflightChecks(cmd.Context())

	if outputJSON {
		if err := printJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), app.FormatResults(results))
	}

	if app.HasCriticalFailure(results) {
		return fmt.Errorf("critical pre-flight checks failed")
	}
	return nil
}
