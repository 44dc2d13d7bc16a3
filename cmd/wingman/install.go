package main

import (
	"github.com/spf13/cobra"
)

func installCmd(g *globals) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:     "install [dir]",
		Aliases: []string{"compose"},
		Short:   "Compose the tree and write the outputs",
		Long: `Compose the project's tree for one agent and write every output file.

The main document goes to the agent's instructions path; skills,
subagents and other output files go to their own paths under the
target directory, or to an S3 bucket with --s3-bucket.

Examples:
  wingman install
  wingman install --target claude -t ../service
  wingman install -o language=python --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadProject(cmd, args, &flags)
			if err != nil {
				return err
			}
			a := g.newApp(cfg)

			result, err := a.composer.Install(cmd.Context(), a.options())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Files) == 0 {
				warn(out, "Nothing to write: the tree rendered empty")
				return nil
			}
			verb := "Wrote"
			if cfg.DryRun {
				verb = "Would write"
			}
			success(out, "%s %d files for %s to %s", verb, len(result.Files), result.Context.AgentName, a.destination())
			printFiles(out, result.Files)
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func cleanCmd(g *globals) *cobra.Command {
	var flags projectFlags

	cmd := &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove the files install would write",
		Long: `Compose the tree and remove every output file it names.

Files that are already missing are skipped.

Examples:
  wingman clean
  wingman clean --target claude-plugin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadProject(cmd, args, &flags)
			if err != nil {
				return err
			}
			a := g.newApp(cfg)

			result, err := a.composer.Compose(cmd.Context(), a.options())
			if err != nil {
				return err
			}
			if err := a.composer.Clean(cmd.Context(), result); err != nil {
				return err
			}

			verb := "Removed"
			if cfg.DryRun {
				verb = "Would remove"
			}
			out := cmd.OutOrStdout()
			success(out, "%s %d files from %s", verb, len(result.Files), a.destination())
			printFiles(out, result.Files)
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}
