package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dtg01100/touch-settings/internal/schema"
)

var schemaList bool

var schemaCmd = &cobra.Command{
	Use:   "schema [domain]",
	Short: "Print the settings schema of a domain",
	Long: `Print the tabs, groups and fields of a settings domain as YAML, or as
JSON with --json. With --list, print the available domains.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeDomains,
	RunE:              runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVarP(&schemaList, "list", "l", false, "list the settings domains")
}

type domainInfo struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func runSchema(cmd *cobra.Command, args []string) error {
	if schemaList || len(args) == 0 {
		return runSchemaList(cmd)
	}

	_, p, err := loadPlugin(args[0])
	if err != nil {
		return err
	}

	tabs := p.Tabs()
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), tabs)
	}
	data, err := schema.MarshalTabsYAML(tabs)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runSchemaList(cmd *cobra.Command) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	var domains []domainInfo
	for _, p := range a.Registry.All() {
		domains = append(domains, domainInfo{Name: p.Name(), Title: p.Title(), Description: p.Description()})
	}

	if outputJSON {
		return printJSON(cmd.OutOrStdout(), domains)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTITLE\tDESCRIPTION")
	for _, d := range domains {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Title, d.Description)
	}
	return w.Flush()
}
