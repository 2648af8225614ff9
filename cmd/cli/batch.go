package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lifeexp/adapters/excel"
	"lifeexp/app"
)

func newBatchCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Predict every row of an xlsx or csv file",
		Long: `Predict every row of an xlsx or csv file. The header row names the
indicators, by key (gdp), training column (GDP) or label; a "status" column
sets the country status. Missing cells take the control default.

Example: lifeexp batch countries.xlsx --out predictions.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := excel.NewDataReader(args[0], logger).ReadData()
			if err != nil {
				return err
			}
			svc, err := loadPredictor(cmd)
			if err != nil {
				return err
			}

			res, err := app.NewBatchService(svc, runtime.NumCPU()).Run(cmd.Context(), data.Fields())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LINE\tPREDICTION")
			for i, row := range res.Rows {
				if row.Err != nil {
					fmt.Fprintf(tw, "%d\terror: %v\n", data.Lines[i], row.Err)
					continue
				}
				fmt.Fprintf(tw, "%d\t%s\n", data.Lines[i], row.Prediction.Display)
			}
			tw.Flush()

			s := res.Summary
			fmt.Fprintf(out, "\n%d predicted, %d failed\n", s.Count, s.Failed)
			if s.Count > 0 {
				fmt.Fprintf(out, "mean %s  median %s  min %s  max %s  p10 %s  p90 %s\n",
					app.FormatYears(s.Mean), app.FormatYears(s.Median), app.FormatYears(s.Min),
					app.FormatYears(s.Max), app.FormatYears(s.P10), app.FormatYears(s.P90))
			}

			if outPath != "" {
				if err := writeBatchSheet(outPath, data, res); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Also write results to this xlsx file")
	return cmd
}

func writeBatchSheet(path string, data *excel.ExcelData, res *app.BatchResult) error {
	headers := append(append([]string{"line"}, data.Headers...), "years", "log_value", "error")
	rows := make([][]interface{}, len(res.Rows))
	for i, r := range res.Rows {
		row := []interface{}{data.Lines[i]}
		for _, h := range data.Headers {
			row = append(row, data.Rows[i][h])
		}
		if r.Err != nil {
			row = append(row, "", "", r.Err.Error())
		} else {
			row = append(row, r.Prediction.Years, r.Prediction.LogValue, "")
		}
		rows[i] = row
	}
	return excel.WriteSheet(path, "Predictions", headers, rows)
}
