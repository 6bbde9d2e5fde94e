package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/cashscore/internal/config"
	"github.com/cleared-dev/cashscore/internal/gitops"
	"github.com/cleared-dev/cashscore/internal/taxonomy"
)

const taxonomyFileName = "taxonomy.yaml"

func newInitCommand() *cobra.Command {
	var force, useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new scoring project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, force, useGit)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing cashscore.yaml")
	cmd.Flags().BoolVar(&useGit, "git", false, "version the project files in a git repository")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir string, force, useGit bool) error {
	if useGit && !gitops.Available() {
		return gitops.ErrGitNotFound
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	// Create directory structure.
	for _, d := range []string{"import", "models", "out"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write cashscore.yaml.
	cfg := config.Default()
	cfg.TaxonomyPath = taxonomyFileName
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the default taxonomy so it can be edited in place.
	if err := taxonomy.Save(filepath.Join(dir, taxonomyFileName), taxonomy.Default()); err != nil {
		return fmt.Errorf("writing taxonomy: %w", err)
	}

	// Write .gitignore.
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("out/\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized cashscore project at %s\n", dir)
		return nil
	}

	// Initialize git and commit the project files. Scored output stays out.
	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}
	hash, err := gitops.Commit(ctx, dir, "init: cashscore project", gitops.DefaultAuthor,
		config.FileName, taxonomyFileName, ".gitignore", filepath.Join("import", ".gitkeep"))
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized cashscore project at %s (%s)\n", dir, hash)
	return nil
}
