package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Ryandj11/AutoStack/internal/diff"
	"github.com/Ryandj11/AutoStack/internal/engine"
	"github.com/Ryandj11/AutoStack/internal/input"
	"github.com/Ryandj11/AutoStack/internal/output"
	"github.com/Ryandj11/AutoStack/internal/planner"
	"github.com/Ryandj11/AutoStack/internal/registry"
	"github.com/Ryandj11/AutoStack/internal/render"
	"github.com/Ryandj11/AutoStack/internal/report"
)

// InitCmd creates and returns the 'init' command for generating projects.
func InitCmd() *cobra.Command {
	var (
		backend    string
		frontend   string
		withDocker bool
		withTests  bool
		withCI     bool
		force      bool
		dryRun     bool
		showDiff   bool
	)

	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Generate a new project",
		Long: `Generates a new project directory from the selected modules.

Backend and frontend default to "none"; Docker, tests, and CI are opt-in
flags. Defaults can be preconfigured in autostack.yml.

Example:
  autostack init myapp --backend fastapi --frontend react --with-docker --with-ci`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			projectName := args[0]

			defs := loadDefaults()
			if !cmd.Flags().Changed("backend") && defs.Backend != "" {
				backend = defs.Backend
			}
			if !cmd.Flags().Changed("frontend") && defs.Frontend != "" {
				frontend = defs.Frontend
			}
			if !cmd.Flags().Changed("with-docker") {
				withDocker = withDocker || defs.WithDocker
			}
			if !cmd.Flags().Changed("with-tests") {
				withTests = withTests || defs.WithTests
			}
			if !cmd.Flags().Changed("with-ci") {
				withCI = withCI || defs.WithCI
			}

			output.Verbose(fmt.Sprintf("Initializing project: %s", projectName))

			reg, err := registry.Load()
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			req := planner.Request{
				ProjectName: projectName,
				Backend:     backend,
				Frontend:    frontend,
				WithDocker:  withDocker,
				WithTests:   withTests,
				WithCI:      withCI,
				Force:       force,
			}

			// An existing non-empty target is fatal without force, so settle
			// the question up front while we can still ask.
			if !req.Force && targetNonEmpty(projectName) {
				if !input.IsTerminal() {
					output.Error(fmt.Sprintf("target directory %q already exists and is not empty (use --force to overwrite)", projectName))
					os.Exit(1)
				}
				output.Warn(fmt.Sprintf("Directory %q already exists and is not empty.", projectName))
				if !input.Confirm("Overwrite files that AutoStack generates?", false) {
					output.Info("Aborted; nothing was written.")
					os.Exit(1)
				}
				req.Force = true
			}

			opts := engine.Options{DryRun: dryRun}
			if showDiff && !dryRun {
				opts.Inspect = overwriteDiffs(projectName)
			}

			run, err := engine.New(reg).Generate(cmd.Context(), req, opts)
			if err != nil {
				output.Error(err.Error())
				os.Exit(1)
			}

			if dryRun {
				fmt.Print(report.DryRun(run.Plan, run.Files))
				output.Info("Dry run; nothing was written.")
				return
			}

			fmt.Print(report.Commit(run.Plan, run.Result))
			output.Success(fmt.Sprintf("Created project: %s", projectName))
			printNextSteps(run, withDocker)
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "Backend framework (fastapi, flask, express)")
	cmd.Flags().StringVar(&frontend, "frontend", "", "Frontend framework (react, vue, none)")
	cmd.Flags().BoolVar(&withDocker, "with-docker", false, "Add Docker configuration")
	cmd.Flags().BoolVar(&withTests, "with-tests", false, "Add testing setup")
	cmd.Flags().BoolVar(&withCI, "with-ci", false, "Add GitHub Actions CI")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite matching files in an existing directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be generated without writing")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Show diffs of files that would be overwritten")

	return cmd
}

// targetNonEmpty reports whether the target directory exists and has
// entries.
func targetNonEmpty(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

// overwriteDiffs returns an inspect hook that diffs rendered files against
// their on-disk counterparts before the commit.
func overwriteDiffs(projectRoot string) func([]render.File) error {
	return func(files []render.File) error {
		for _, f := range files {
			existing, err := os.ReadFile(filepath.Join(projectRoot, filepath.FromSlash(f.Path)))
			if err != nil {
				continue // new file, nothing to diff against
			}
			d := diff.Unified(f.Path, existing, f.Content, nil)
			if d == "" {
				continue
			}
			if err := diff.Show(f.Path, d); err != nil {
				return err
			}
		}
		return nil
	}
}

func printNextSteps(run *engine.Run, withDocker bool) {
	output.Info("Next steps:")
	output.Step(fmt.Sprintf("cd %s", run.Result.Root))

	ctx := run.Plan.Context
	if ctx.Bool("backend.enabled") {
		if cmdStr, ok := ctx.Value("backend.runCommand"); ok {
			output.Step(fmt.Sprintf("cd backend && %v", cmdStr))
		}
	}
	if ctx.Bool("frontend.enabled") {
		if dir, ok := ctx.Value("frontend.dir"); ok {
			output.Step(fmt.Sprintf("cd %v && npm install && npm run dev", dir))
		}
	}
	if withDocker {
		output.Step("docker compose up --build")
	}
}
