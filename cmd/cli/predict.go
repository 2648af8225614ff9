package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifeexp/app"
	"lifeexp/domain/indicator"
)

func newPredictCmd() *cobra.Command {
	var (
		status  string
		inspect bool
		asJSON  bool
		values  = make(map[indicator.Key]*float64)
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict life expectancy for one set of indicators",
		Long: `Predict life expectancy for one set of indicators. Indicators left
unset take their default.

Example: lifeexp predict --variant forest --status Developed --schooling 16 --hiv 0.1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := map[string]string{string(indicator.StatusKey): status}
			for key, v := range values {
				if cmd.Flags().Changed(string(key)) {
					fields[string(key)] = strconv.FormatFloat(*v, 'g', -1, 64)
				}
			}
			raw, err := indicator.Parse(fields)
			if err != nil {
				return err
			}

			svc, err := loadPredictor(cmd)
			if err != nil {
				return err
			}
			p, err := svc.Predict(cmd.Context(), raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			fmt.Fprintf(out, "%s\nPredicted life expectancy: %s\n", svc.Pack().Title, p.Display)
			if inspect {
				writeVector(out, p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(indicator.StatusDeveloping), "Country status (Developing or Developed)")
	cmd.Flags().BoolVar(&inspect, "inspect", false, "Print the feature vector sent to the model")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	for _, ind := range indicator.Catalog() {
		v := new(float64)
		values[ind.Key] = v
		usage := fmt.Sprintf("%s (%s to %s)", ind.Label, ind.Format(ind.Min), ind.Format(ind.Max))
		cmd.Flags().Float64Var(v, string(ind.Key), ind.Default, usage)
	}
	return cmd
}

func writeVector(w io.Writer, p *app.Prediction) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\nFEATURE\tVALUE")
	for i, col := range p.Vector.Columns {
		fmt.Fprintf(tw, "%s\t%g\n", col, p.Vector.Values[i])
	}
	tw.Flush()
}
