package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/kovidgoyal/labtransfer/correspondence"
	"github.com/spf13/cobra"
)

var randpointsCmd = &cobra.Command{
	Use:   "randpoints",
	Short: "Write a points file of random samples",
	RunE:  runRandpoints,
}

func init() {
	randpointsCmd.Flags().IntP("count", "n", 100, "Number of points")
	randpointsCmd.Flags().IntP("dim", "d", 2, "Dimension of the points")
	randpointsCmd.Flags().StringP("output", "o", "", "Output points file")
	randpointsCmd.Flags().Uint64("seed", 0, "Random seed, 0 picks a random seed")
	randpointsCmd.Flags().Int("precision", 6, "Digits after the decimal point")
	randpointsCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(randpointsCmd)
}

func runRandpoints(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("count")
	dim, _ := cmd.Flags().GetInt("dim")
	outputPath, _ := cmd.Flags().GetString("output")
	seed, _ := cmd.Flags().GetUint64("seed")
	prec, _ := cmd.Flags().GetInt("precision")
	if n < 1 || dim < 1 {
		return fmt.Errorf("the number of points and the dimension must be positive")
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	points, values := correspondence.RandomPoints(rng, n, dim)
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err = correspondence.WritePoints(f, points, values, prec); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return f.Close()
}
