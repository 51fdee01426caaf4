package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	apperrors "github.com/dtg01100/touch-settings/internal/errors"
	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/schema"
	"github.com/dtg01100/touch-settings/internal/tui/components"
)

var getCmd = &cobra.Command{
	Use:   "get <domain> [key...]",
	Short: "Print stored settings",
	Long: `Print the stored settings of a domain as flat key/value pairs. Keys
limit the output to the named fields.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeDomains,
	RunE:              runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <domain> <key=value>...",
	Short: "Change stored settings",
	Long: `Change stored settings of a domain. Values are checked against the
field they belong to: numbers must lie in range, choices must be one of the
listed options and lists are separated by commas.

With --interactive, each named key (or a chosen one) is edited in a prompt.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeDomains,
	RunE:              runSet,
}

var resetCmd = &cobra.Command{
	Use:               "reset <domain>...",
	Short:             "Restore default settings",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeDomains,
	RunE:              runReset,
}

var setInteractive bool

// runForm runs an interactive form. This function is injectable for
// testing purposes.
var runForm = func(f *huh.Form) error {
	return f.Run()
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(resetCmd)

	setCmd.Flags().BoolVarP(&setInteractive, "interactive", "i", false, "edit values in prompts")
}

// fieldIndex returns the schema fields of p by key.
func fieldIndex(p plugins.Plugin) map[string]schema.SettingField {
	fields := make(map[string]schema.SettingField)
	for _, t := range p.Tabs() {
		for _, f := range t.Fields() {
			fields[f.Key] = f
		}
	}
	return fields
}

func unknownKey(domain, key string) error {
	return apperrors.NewValidationError(key, fmt.Sprintf("%s has no setting %q", domain, key))
}

// formatValue renders a flat value the way Coerce reads it back.
func formatValue(v any) string {
	switch x := v.(type) {
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, ",")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return cast.ToString(v)
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	_, p, err := loadPlugin(args[0])
	if err != nil {
		return err
	}
	values, err := p.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	if keys := args[1:]; len(keys) > 0 {
		for _, k := range keys {
			if _, ok := values[k]; !ok {
				return unknownKey(p.Name(), k)
			}
		}
		values = values.Only(keys...)
	}

	if outputJSON {
		return printJSON(cmd.OutOrStdout(), values)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE")
	for _, k := range values.Keys() {
		fmt.Fprintf(w, "%s\t%s\n", k, formatValue(values[k]))
	}
	return w.Flush()
}

// parseAssignments turns key=value arguments into typed values.
func parseAssignments(p plugins.Plugin, args []string) (schema.Values, error) {
	fields := fieldIndex(p)
	values := make(schema.Values, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, apperrors.NewValidationError(arg, "expected key=value")
		}
		key = strings.TrimSpace(key)
		f, ok := fields[key]
		if !ok {
			return nil, unknownKey(p.Name(), key)
		}
		v, err := f.Coerce(raw)
		if err != nil {
			return nil, apperrors.NewValidationError(key, err.Error())
		}
		values[key] = v
	}
	return values, nil
}

func runSet(cmd *cobra.Command, args []string) error {
	a, p, err := loadPlugin(args[0])
	if err != nil {
		return err
	}

	var values schema.Values
	if setInteractive {
		components.SetTheme(a.Config.UI.Theme)
		values, err = promptValues(cmd.Context(), p, args[1:])
	} else {
		if len(args) < 2 {
			return fmt.Errorf("set needs at least one key=value, or --interactive")
		}
		values, err = parseAssignments(p, args[1:])
	}
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}

	if err := p.Apply(cmd.Context(), values); err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), values)
	}
	for _, k := range values.Keys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s.%s = %s\n", p.Name(), k, formatValue(values[k]))
	}
	return nil
}

// promptValues edits keys of p in huh prompts. Without keys the user picks
// one field.
func promptValues(ctx context.Context, p plugins.Plugin, keys []string) (schema.Values, error) {
	current, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	fields := fieldIndex(p)

	if len(keys) == 0 {
		var picked string
		var opts []huh.Option[string]
		for _, t := range p.Tabs() {
			for _, f := range t.Fields() {
				opts = append(opts, huh.NewOption(t.Title+" › "+f.Label, f.Key))
			}
		}
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().Title("Setting").Options(opts...).Value(&picked),
		)).WithTheme(components.FormTheme())
		if err := runPrompt(form); err != nil {
			return nil, err
		}
		if picked == "" {
			return nil, nil
		}
		keys = []string{picked}
	}

	raws := make([]string, len(keys))
	var inputs []huh.Field
	for i, k := range keys {
		f, ok := fields[k]
		if !ok {
			return nil, unknownKey(p.Name(), k)
		}
		raws[i] = formatValue(current[k])
		inputs = append(inputs, promptField(f, &raws[i]))
	}

	form := huh.NewForm(huh.NewGroup(inputs...)).WithTheme(components.FormTheme())
	if err := runPrompt(form); err != nil {
		return nil, err
	}

	values := make(schema.Values, len(keys))
	for i, k := range keys {
		v, err := fields[k].Coerce(raws[i])
		if err != nil {
			return nil, apperrors.NewValidationError(k, err.Error())
		}
		values[k] = v
	}
	return values, nil
}

// promptField returns the huh control for f bound to raw.
func promptField(f schema.SettingField, raw *string) huh.Field {
	title := f.Label
	if f.Suffix != "" {
		title += " (" + strings.TrimSpace(f.Suffix) + ")"
	}
	switch f.WidgetType {
	case schema.WidgetCombo:
		return huh.NewSelect[string]().Title(title).Options(huh.NewOptions(f.Choices...)...).Value(raw)
	case schema.WidgetToggle:
		return huh.NewSelect[string]().Title(title).Options(huh.NewOptions("true", "false")...).Value(raw)
	default:
		return huh.NewInput().Title(title).Value(raw).Validate(func(s string) error {
			_, err := f.Coerce(s)
			return err
		})
	}
}

func runPrompt(form *huh.Form) error {
	if err := runForm(form); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("cancelled")
		}
		return err
	}
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	for _, name := range args {
		p, err := a.Registry.Get(name)
		if err != nil {
			return err
		}
		if err := p.Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s settings to defaults.\n", p.Title())
	}
	return nil
}
