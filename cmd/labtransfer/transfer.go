package main

import (
	"fmt"
	"os"

	"github.com/kovidgoyal/labtransfer"
	"github.com/kovidgoyal/labtransfer/correspondence"
	"github.com/kovidgoyal/labtransfer/rbf"
	"github.com/spf13/cobra"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Remap the colours of an image using sampled colour pairs",
	RunE:  runTransfer,
}

func init() {
	transferCmd.Flags().StringP("input", "i", "", "Input image file")
	transferCmd.Flags().StringP("pairs", "p", "", "Colour pairs file")
	transferCmd.Flags().StringP("output", "o", "", "Output image file, the format is taken from its extension")
	transferCmd.Flags().String("kernel", "normshepard", "Radial kernel (normshepard, shepard)")
	transferCmd.Flags().Float64("power", 0, "Kernel power, 0 selects the default for the kernel")
	transferCmd.Flags().Bool("no-normalize", false, "Disable normalized interpolation")
	transferCmd.Flags().Bool("linear", false, "Treat pixel values as linear RGB instead of sRGB")
	transferCmd.Flags().Int("workers", 0, "Number of worker goroutines, 0 means one per CPU")
	transferCmd.Flags().Int("quality", 95, "JPEG quality (1-100)")
	transferCmd.MarkFlagRequired("input")
	transferCmd.MarkFlagRequired("pairs")
	transferCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(transferCmd)
}

func read_pairs(path string) ([]labtransfer.ColorPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := correspondence.ReadColorPairs(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return labtransfer.PairsFromTriples(t), nil
}

func runTransfer(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	pairsPath, _ := cmd.Flags().GetString("pairs")
	outputPath, _ := cmd.Flags().GetString("output")
	kernelName, _ := cmd.Flags().GetString("kernel")
	power, _ := cmd.Flags().GetFloat64("power")
	noNormalize, _ := cmd.Flags().GetBool("no-normalize")
	linear, _ := cmd.Flags().GetBool("linear")
	workers, _ := cmd.Flags().GetInt("workers")
	quality, _ := cmd.Flags().GetInt("quality")

	kernel, err := rbf.ParseKernel(kernelName, power)
	if err != nil {
		return err
	}
	if _, err = labtransfer.FormatFromFilename(outputPath); err != nil {
		return fmt.Errorf("output %s: %w", outputPath, err)
	}
	pairs, err := read_pairs(pairsPath)
	if err != nil {
		return err
	}
	tr, err := labtransfer.NewTransfer(pairs, labtransfer.Kernel(kernel), labtransfer.Normalize(!noNormalize),
		labtransfer.Gamma(!linear), labtransfer.Workers(workers))
	if err != nil {
		return fmt.Errorf("fitting colour transfer: %w", err)
	}
	for _, w := range tr.Warnings() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	img, err := labtransfer.Open(inputPath)
	if err != nil {
		return err
	}
	if img, err = tr.Apply(img); err != nil {
		return fmt.Errorf("remapping colours: %w", err)
	}
	if err = labtransfer.Save(img, outputPath, labtransfer.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
