package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chenchenpp/springboot-code-mcp/internal/config"
	"github.com/chenchenpp/springboot-code-mcp/internal/pom"
	"github.com/chenchenpp/springboot-code-mcp/internal/pomfile"
	"github.com/chenchenpp/springboot-code-mcp/internal/scaffold"
)

var (
	injectPresets  []string
	injectCustom   pom.Dependency
	injectJSON     bool
	injectExamples bool
)

var injectCmd = &cobra.Command{
	Use:   "inject <pom.xml>...",
	Short: "Inject preset or custom dependencies into pom.xml files",
	Long: `Inject preset dependencies (--preset) and/or one custom dependency
(--group, --artifact, --version) into each pom.xml given.

New blocks are inserted before the first </dependencies> tag. A dependency whose
groupId and artifactId already appear in the file is skipped, so running the
same command twice is safe. Files are processed concurrently.`,
	Example: `  springboot-code-mcp inject pom.xml --preset BOTH
  springboot-code-mcp inject svc-a/pom.xml svc-b/pom.xml --preset sso
  springboot-code-mcp inject pom.xml --group org.projectlombok --artifact lombok --version 1.18.30 --scope provided`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInject,
}

func init() {
	injectCmd.Flags().StringSliceVarP(&injectPresets, "preset", "p", nil, "Preset tags to inject (e.g. SSO,FEIGN or BOTH)")
	injectCmd.Flags().StringVar(&injectCustom.GroupID, "group", "", "groupId of a custom dependency")
	injectCmd.Flags().StringVar(&injectCustom.ArtifactID, "artifact", "", "artifactId of a custom dependency")
	injectCmd.Flags().StringVar(&injectCustom.Version, "version", "", "version of a custom dependency")
	injectCmd.Flags().StringVar(&injectCustom.Scope, "scope", "", "scope of a custom dependency (optional)")
	injectCmd.Flags().StringVar(&injectCustom.Type, "type", "", "packaging type of a custom dependency (optional)")
	injectCmd.Flags().BoolVar(&injectJSON, "json", false, "Output results in JSON format")
	injectCmd.Flags().BoolVar(&injectExamples, "examples", false, "Print usage examples for injected presets")
	rootCmd.AddCommand(injectCmd)
}

// injectFileResult is the JSON form of one file's outcome.
type injectFileResult struct {
	Path     string   `json:"path"`
	Injected []string `json:"injected"`
	Skipped  []string `json:"skipped"`
	Written  bool     `json:"written"`
	Error    string   `json:"error,omitempty"`
}

func runInject(cmd *cobra.Command, args []string) error {
	deps, err := injectDependencies(cmd)
	if err != nil {
		return err
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	presetDeps, err := cat.Resolve(injectPresets)
	if err != nil {
		return err
	}
	deps = append(presetDeps, deps...)

	injector := pomfile.NewInjector(logger, pomfile.WriteOptions{Backup: config.Backup()})
	outcomes, err := injector.InjectFiles(cmd.Context(), args, deps)
	if err != nil {
		return err
	}

	results := make([]injectFileResult, 0, len(outcomes))
	var failed int
	var injected []string
	for _, o := range outcomes {
		r := injectFileResult{Path: o.Path, Written: o.Written}
		if o.Err != nil {
			failed++
			r.Error = o.Err.Error()
		} else {
			r.Injected = o.Result.Injected
			r.Skipped = o.Result.Skipped
			injected = append(injected, o.Result.Injected...)
		}
		results = append(results, r)
	}

	out := cmd.OutOrStdout()
	if injectJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		for _, r := range results {
			printInjectResult(cmd, r)
		}
		if len(injected) > 0 {
			fmt.Fprintln(out, "\nNext steps:")
			fmt.Fprintln(out, "  1. Run mvn clean install to fetch the new dependencies")
			fmt.Fprintln(out, "  2. Refresh the project in your IDE")
		}
		if injectExamples {
			for _, p := range cat.Selected(injectPresets) {
				if p.Example == "" || !slices.Contains(injected, p.Dependency.Key()) {
					continue
				}
				snippet, err := scaffold.Example(p.Example, p.Dependency)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n=== %s usage example ===\n%s\n", p.Tag, snippet)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

// injectDependencies returns the custom dependency from flags, if any.
func injectDependencies(cmd *cobra.Command) ([]pom.Dependency, error) {
	custom := cmd.Flags().Changed("group") || cmd.Flags().Changed("artifact") || cmd.Flags().Changed("version")
	if !custom {
		if len(injectPresets) == 0 {
			return nil, fmt.Errorf("nothing to inject: pass --preset or --group/--artifact/--version")
		}
		return nil, nil
	}

	dep := pom.Dependency{
		GroupID:    strings.TrimSpace(injectCustom.GroupID),
		ArtifactID: strings.TrimSpace(injectCustom.ArtifactID),
		Version:    strings.TrimSpace(injectCustom.Version),
		Scope:      strings.TrimSpace(injectCustom.Scope),
		Type:       strings.TrimSpace(injectCustom.Type),
	}
	if err := dep.Validate(); err != nil {
		return nil, fmt.Errorf("invalid custom dependency: %w", err)
	}
	return []pom.Dependency{dep}, nil
}

func printInjectResult(cmd *cobra.Command, r injectFileResult) {
	out := cmd.OutOrStdout()
	if r.Error != "" {
		fmt.Fprintf(out, "%s: error: %s\n", r.Path, r.Error)
		return
	}
	fmt.Fprintf(out, "%s: %d injected, %d skipped\n", r.Path, len(r.Injected), len(r.Skipped))
	for _, k := range r.Injected {
		fmt.Fprintf(out, "  + %s\n", k)
	}
	for _, k := range r.Skipped {
		fmt.Fprintf(out, "  = %s (already present)\n", k)
	}
}
