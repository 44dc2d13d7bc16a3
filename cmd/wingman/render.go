package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func renderCmd(g *globals) *cobra.Command {
	var (
		flags  projectFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "render [dir]",
		Short: "Print the composed outputs without writing them",
		Long: `Compose the tree and print every output file to stdout.

Each file is preceded by a "==> path <==" header. With --json the
files are printed as a JSON array of {path, content} objects.

Examples:
  wingman render --target claude
  wingman render --json | jq -r '.[].path'`,
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

			out := cmd.OutOrStdout()
			if asJSON {
				type file struct {
					Path    string `json:"path"`
					Content string `json:"content"`
				}
				files := make([]file, len(result.Files))
				for i, f := range result.Files {
					files[i] = file{Path: f.Path, Content: f.Content}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			}

			for i, f := range result.Files {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "==> %s <==\n%s", f.Path, f.Content)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print files as JSON")
	return cmd
}
