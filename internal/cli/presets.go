package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chenchenpp/springboot-code-mcp/internal/presets"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the predefined dependencies",
	Long: `List the preset dependencies that --preset and the injectPomDependencies tool accept.

Presets come from the built-in catalog, merged with the file named by the
presets_file config key when it is set.`,
	Args: cobra.NoArgs,
	RunE: runPresets,
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(presetsCmd)
}

// presetsListing is the JSON form of the catalog.
type presetsListing struct {
	Presets []presets.Preset    `json:"presets"`
	Aliases map[string][]string `json:"aliases"`
}

func runPresets(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	if presetsJSON {
		data, err := json.MarshalIndent(presetsListing{Presets: cat.Presets(), Aliases: cat.Aliases()}, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling presets: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TAG\tDEPENDENCY\tSCOPE\tDESCRIPTION")
	for _, p := range cat.Presets() {
		scope := p.Dependency.Scope
		if scope == "" {
			scope = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Tag, p.Dependency, scope, truncate(p.Description, 60))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	aliases := cat.Aliases()
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(cmd.OutOrStdout(), "\nAliases:")
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", name, strings.Join(aliases[name], " + "))
	}
	return nil
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
