package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chenchenpp/springboot-code-mcp/internal/scaffold"
)

var exampleCmd = &cobra.Command{
	Use:   "example <tag>",
	Short: "Print the Java usage example for a preset",
	Long: `Print the usage example for a preset dependency. An alias prints the
example of every preset it expands to.`,
	Example: `  springboot-code-mcp example SSO
  springboot-code-mcp example both`,
	Args: cobra.ExactArgs(1),
	RunE: runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	if _, err := cat.Resolve(args); err != nil {
		return err
	}

	printed := 0
	for _, p := range cat.Selected(args) {
		if p.Example == "" {
			continue
		}
		snippet, err := scaffold.Example(p.Example, p.Dependency)
		if err != nil {
			return err
		}
		if printed > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		fmt.Fprintln(cmd.OutOrStdout(), snippet)
		printed++
	}
	if printed == 0 {
		return fmt.Errorf("preset %s has no usage example", args[0])
	}
	return nil
}
