package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kovidgoyal/labtransfer"
	"github.com/kovidgoyal/labtransfer/correspondence"
	"github.com/kovidgoyal/labtransfer/rbf"
	"github.com/spf13/cobra"
)

var fitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit an RBF model to a points file and evaluate it at query points",
	RunE:  runFit,
}

func init() {
	fitCmd.Flags().StringP("input", "i", "", "Points file")
	fitCmd.Flags().IntP("dim", "d", 2, "Dimension of the points")
	fitCmd.Flags().StringArrayP("query", "q", nil, "Comma separated query point, may be repeated")
	fitCmd.Flags().String("kernel", "normshepard", "Radial kernel (normshepard, shepard)")
	fitCmd.Flags().Float64("power", 0, "Kernel power, 0 selects the default for the kernel")
	fitCmd.Flags().Bool("no-normalize", false, "Disable normalized interpolation")
	fitCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(fitCmd)
}

func parse_query(s string, dim int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != dim {
		return nil, fmt.Errorf("query %q has %d coordinates, expected %d", s, len(parts), dim)
	}
	ans := make([]float64, dim)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate in query %q: %w", s, err)
		}
		ans[i] = v
	}
	return ans, nil
}

func runFit(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	dim, _ := cmd.Flags().GetInt("dim")
	queries, _ := cmd.Flags().GetStringArray("query")
	kernelName, _ := cmd.Flags().GetString("kernel")
	power, _ := cmd.Flags().GetFloat64("power")
	noNormalize, _ := cmd.Flags().GetBool("no-normalize")

	kernel, err := rbf.ParseKernel(kernelName, power)
	if err != nil {
		return err
	}
	qs := make([][]float64, len(queries))
	for i, q := range queries {
		if qs[i], err = parse_query(q, dim); err != nil {
			return err
		}
	}
	f, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	points, values, err := correspondence.ReadPoints(f, dim)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}
	m, err := rbf.New(points, values, kernel, !noNormalize, rbf.WithLogger(labtransfer.Logger()))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "points: %d dim: %d kernel: %s normalized: %v\n", m.Len(), m.Dim(), m.Kernel(), m.Normalized())
	fmt.Fprintf(out, "rank: %d relative residual: %.6g\n", m.Rank(), m.Residual())
	if w := m.Warning(); w != nil {
		fmt.Fprintln(out, "warning:", w)
	}
	for i, q := range qs {
		fmt.Fprintf(out, "%s -> %.6f\n", queries[i], m.Evaluate(q))
	}
	return nil
}
