package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trk-go/internal/app"
	"trk-go/internal/config"
	"trk-go/internal/scaffold"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Plan", "Renumber").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "trk",
	Short: "File-based record tracker",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [PROJECT_ROOT]",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		if len(args) > 0 {
			root, err = filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolving project root: %w", err)
			}
		}

		cfg := config.NewConfig(root, defaults["log_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Project root: %s\n", root)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Project root: %s\n", cfg.ProjectRoot)
		fmt.Printf("Records dir:  %s\n", cfg.RecordsDir())
		fmt.Printf("Log dir:      %s\n", cfg.LogDir)
		return nil
	},
}

// doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check and repair project scaffold",
}

var doctorPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "Report scaffold drift without changing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Plan")
		if err != nil {
			return err
		}
		defer a.Close()

		plan, err := a.Plan()
		if err != nil {
			return fmt.Errorf("planning: %w", err)
		}

		printPlan(plan)
		return nil
	},
}

var doctorApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Converge the project scaffold",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		restorePaths, _ := cmd.Flags().GetStringArray("restore")
		resetPaths, _ := cmd.Flags().GetStringArray("reset")

		a, err := newApp("Apply")
		if err != nil {
			return err
		}
		defer a.Close()

		decisions := scaffold.Decisions{
			Restore: toSet(restorePaths),
			Reset:   toSet(resetPaths),
		}

		// With no explicit decisions on a terminal, ask per pending path.
		if !force && term.IsTerminal(int(os.Stdin.Fd())) {
			plan, err := a.Plan()
			if err != nil {
				return fmt.Errorf("planning: %w", err)
			}
			promptDecisions(plan, &decisions)
		}

		result, err := a.Apply(decisions, force)
		if err != nil {
			return fmt.Errorf("applying: %w", err)
		}

		printResult(result)
		return nil
	},
}

// renumber command
var renumberCmd = &cobra.Command{
	Use:   "renumber",
	Short: "Repair display-number collisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Renumber")
		if err != nil {
			return err
		}
		defer a.Close()

		count, err := a.Renumber()
		if err != nil {
			return fmt.Errorf("renumbering: %w", err)
		}

		if count == 0 {
			fmt.Println("No display-number collisions found.")
			return nil
		}
		fmt.Printf("Reassigned %d record(s)\n", count)
		return nil
	},
}

// new command
var newCmd = &cobra.Command{
	Use:   "new TITLE",
	Short: "Create a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("NewRecord")
		if err != nil {
			return err
		}
		defer a.Close()

		path, err := a.NewRecord(args[0])
		if err != nil {
			return fmt.Errorf("creating record: %w", err)
		}

		fmt.Printf("Created %s\n", path)
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListRecords")
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.ListRecords()
		if err != nil {
			return fmt.Errorf("listing records: %w", err)
		}

		if len(recs) == 0 {
			fmt.Println("No records found.")
			return nil
		}

		for _, r := range recs {
			fmt.Printf("#%-5d  %-8s  %s  %s\n",
				r.DisplayNumber,
				r.Format,
				r.CreatedAt.Format("2006-01-02 15:04:05"),
				r.ID,
			)
		}
		return nil
	},
}

// printPlan renders each plan bucket that has entries.
func printPlan(plan *scaffold.Plan) {
	section := func(title string, paths []string) {
		if len(paths) == 0 {
			return
		}
		fmt.Printf("%s:\n", title)
		for _, p := range paths {
			fmt.Printf("  %s\n", p)
		}
	}

	section("To create", infoPaths(plan.ToCreate))
	section("To restore (deleted since last run)", infoPaths(plan.ToRestore))
	section("To reset (modified since last run)", infoPaths(plan.ToReset))
	section("Type conflicts", infoPaths(plan.TypeConflicts))
	section("Up to date", plan.UpToDate)

	if len(plan.ToCreate) == 0 && len(plan.ToRestore) == 0 &&
		len(plan.ToReset) == 0 && len(plan.TypeConflicts) == 0 {
		fmt.Println("Scaffold is converged.")
	}
}

func printResult(result *scaffold.Result) {
	report := func(verb string, paths []string) {
		for _, p := range paths {
			fmt.Printf("%-8s %s\n", verb, p)
		}
	}
	report("created", result.Created)
	report("restored", result.Restored)
	report("reset", result.Reset)
	report("skipped", result.Skipped)

	if len(result.Created) == 0 && len(result.Restored) == 0 &&
		len(result.Reset) == 0 && len(result.Skipped) == 0 {
		fmt.Println("Nothing to do.")
	}
}

// promptDecisions asks for consent on every pending restore/reset the
// caller did not already decide. Merge-capable files resolve automatically
// and are not prompted for.
func promptDecisions(plan *scaffold.Plan, decisions *scaffold.Decisions) {
	mergeable := make(map[string]bool)
	for _, t := range scaffold.Catalog() {
		if t.Merge == scaffold.MergeJSONArrays {
			mergeable[t.Path] = true
		}
	}

	reader := bufio.NewReader(os.Stdin)
	for _, info := range plan.ToRestore {
		if decisions.Restore[info.Path] {
			continue
		}
		if confirm(reader, fmt.Sprintf("Restore deleted %s?", info.Path)) {
			decisions.Restore[info.Path] = true
		}
	}
	for _, info := range plan.ToReset {
		if mergeable[info.Path] || decisions.Reset[info.Path] {
			continue
		}
		if confirm(reader, fmt.Sprintf("Reset modified %s to template content?", info.Path)) {
			decisions.Reset[info.Path] = true
		}
	}
	for _, info := range plan.TypeConflicts {
		if decisions.Reset[info.Path] {
			continue
		}
		if confirm(reader, fmt.Sprintf("Replace conflicting entry at %s?", info.Path)) {
			decisions.Reset[info.Path] = true
		}
	}
}

func confirm(reader *bufio.Reader, prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

func infoPaths(infos []scaffold.FileInfo) []string {
	paths := make([]string, len(infos))
	for i, info := range infos {
		paths[i] = info.Path
	}
	return paths
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// doctor subcommands
	doctorCmd.AddCommand(doctorPlanCmd)
	doctorCmd.AddCommand(doctorApplyCmd)
	doctorApplyCmd.Flags().BoolP("force", "f", false, "Apply every restore and reset without asking")
	doctorApplyCmd.Flags().StringArray("restore", nil, "Consent to restoring a deleted managed path (repeatable)")
	doctorApplyCmd.Flags().StringArray("reset", nil, "Consent to resetting a modified managed path (repeatable)")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(renumberCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
}
