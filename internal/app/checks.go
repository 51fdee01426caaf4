package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dtg01100/touch-settings/pkg/utils"
)

// CheckResult represents the result of a single pre-flight check.
type CheckResult struct {
	Name       string // Name of the check
	Passed     bool   // Whether the check passed
	Message    string // Error or success message
	Suggestion string // User-friendly suggestion for fixing the issue
	IsCritical bool   // If true, the application cannot continue without this check passing
}

// PreflightChecks verifies the configuration, the data directory and every
// stored settings file.
func (a *App) PreflightChecks(ctx context.Context) []CheckResult {
	var results []CheckResult

	results = append(results, a.checkConfig())

	results = append(results, checkDataDir(a.Config.DataPath()))
	if !results[len(results)-1].Passed {
		results = append(results, CheckResult{
			Name:       "Settings Files",
			Passed:     false,
			Message:    "Skipped: data directory is not writable",
			Suggestion: "Fix the data directory first to check the settings files",
			IsCritical: false,
		})
		return results
	}

	for _, p := range a.Registry.All() {
		result := CheckResult{Name: p.Title() + " Settings"}
		if _, err := p.Fetch(ctx); err != nil {
			result.Message = fmt.Sprintf("Failed to read %s settings: %v", p.Name(), err)
			result.Suggestion = fmt.Sprintf("Run 'touch-settings reset %s' to restore the defaults", p.Name())
		} else {
			result.Passed = true
			result.Message = fmt.Sprintf("%s settings are readable", p.Title())
		}
		results = append(results, result)
	}

	types := CheckResult{Name: "Glue Types"}
	if list, err := a.GlueTypes.List(ctx); err != nil {
		types.Message = fmt.Sprintf("Failed to read custom glue types: %v", err)
		types.Suggestion = "Remove or repair " + a.GlueTypes.Path()
	} else {
		types.Passed = true
		types.Message = fmt.Sprintf("Found %d custom glue type(s)", len(list))
	}
	results = append(results, types)

	return results
}

func (a *App) checkConfig() CheckResult {
	result := CheckResult{
		Name:       "Configuration",
		IsCritical: true,
	}
	if err := a.Config.Validate(); err != nil {
		result.Message = err.Error()
		result.Suggestion = "Fix the configuration file at " + a.Config.Path()
		return result
	}
	result.Passed = true
	result.Message = "Configuration is valid"
	return result
}

// checkDataDir verifies that settings files can be written to dir.
func checkDataDir(dir string) CheckResult {
	result := CheckResult{
		Name:       "Data Directory",
		IsCritical: true,
	}

	if err := utils.EnsureDir(dir); err != nil {
		result.Message = fmt.Sprintf("Cannot create data directory %s: %v", dir, err)
		result.Suggestion = "Set data_dir in the configuration to a writable location"
		return result
	}

	probe, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		result.Message = fmt.Sprintf("Data directory %s is not writable: %v", dir, err)
		result.Suggestion = "Check the permissions of the data directory"
		return result
	}
	probe.Close()
	os.Remove(probe.Name())

	result.Passed = true
	result.Message = fmt.Sprintf("Data directory is writable: %s", dir)
	return result
}

// HasCriticalFailure returns true if any check result has a critical failure.
func HasCriticalFailure(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed && r.IsCritical {
			return true
		}
	}
	return false
}

// AllPassed returns true if all checks passed.
func AllPassed(results []CheckResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// FormatResults formats the check results for display.
func FormatResults(results []CheckResult) string {
	var sb strings.Builder

	sb.WriteString("Pre-flight Check Results:\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for _, r := range results {
		status := "✓ PASS"
		if !r.Passed {
			if r.IsCritical {
				status = "✗ FAIL (critical)"
			} else {
				status = "⚠ FAIL (optional)"
			}
		}

		fmt.Fprintf(&sb, "\n[%s] %s\n", status, r.Name)
		fmt.Fprintf(&sb, "  %s\n", r.Message)
		if r.Suggestion != "" {
			fmt.Fprintf(&sb, "  Suggestion: %s\n", r.Suggestion)
		}
	}

	return sb.String()
}
