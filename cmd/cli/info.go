package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"lifeexp/internal/testkit"
	"lifeexp/internal/tui"
)

func newInfoCmd() *cobra.Command {
	var columns bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe a model variant and render its model card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadPredictor(cmd)
			if err != nil {
				return err
			}
			pack := svc.Pack()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%s\n", pack.Title)
			fmt.Fprintf(out, "variant:   %s (%s)\n", pack.Variant, pack.Dir)
			fmt.Fprintf(out, "model:     %s, %d features\n", pack.Model.Kind(), pack.Model.NumFeatures())
			fmt.Fprintf(out, "scaler:    %s, %d features\n", pack.Scaler.Kind(), pack.Scaler.NumFeatures())
			fmt.Fprintf(out, "schema:    %d columns\n", pack.Schema.Len())
			fmt.Fprintf(out, "status:    %s\n", svc.Encoding())
			if unmapped := svc.Unmapped(); len(unmapped) > 0 {
				fmt.Fprintf(out, "always 0:  %s\n", strings.Join(unmapped, ", "))
			}
			if columns {
				fmt.Fprintln(out)
				for i, c := range pack.Schema.Columns() {
					fmt.Fprintf(out, "%3d  %q\n", i, c)
				}
			}

			if pack.ModelCard == "" {
				return nil
			}
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(80),
			)
			if err != nil {
				fmt.Fprintf(out, "\n%s\n", pack.ModelCard)
				return nil
			}
			rendered, err := renderer.Render(pack.ModelCard)
			if err != nil {
				fmt.Fprintf(out, "\n%s\n", pack.ModelCard)
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().BoolVar(&columns, "columns", false, "List every schema column in order")
	return cmd
}

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadPredictor(cmd)
			if err != nil {
				return err
			}
			return tui.Run(svc)
		},
	}
}

func newFixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures DIR",
		Short: "Write synthetic artifact packs for local demos",
		Long: `Write synthetic linear and random-forest artifact packs under DIR, laid
out the way the training step writes them. Point ARTIFACTS_ROOT at DIR to
serve them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants, err := testkit.WriteFixtures(args[0])
			if err != nil {
				return err
			}
			for _, v := range variants {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s/%s (%s)\n", args[0], v.Dir, v.Name)
			}
			return nil
		},
	}
}
