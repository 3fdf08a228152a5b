package main

import (
	"fmt"
	"strconv"

	"github.com/kovidgoyal/labtransfer/colorconv"
	"github.com/kovidgoyal/labtransfer/lut"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

var labCmd = &cobra.Command{
	Use:   "lab R G B",
	Short: "Print the CIELAB coordinates of an 8-bit sRGB colour",
	Args:  cobra.ExactArgs(3),
	RunE:  runLab,
}

func init() {
	labCmd.Flags().Bool("linear", false, "Treat the colour as linear RGB instead of sRGB")
	rootCmd.AddCommand(labCmd)
}

func runLab(cmd *cobra.Command, args []string) error {
	linear, _ := cmd.Flags().GetBool("linear")
	var rgb [3]uint8
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 || v > 255 {
			return fmt.Errorf("invalid 8-bit sample: %q", a)
		}
		rgb[i] = uint8(v)
	}
	mode := colorconv.SRGBToLab
	if linear {
		mode = colorconv.LinearRGBToLab
	}
	tables := lut.Default()
	frgb, lab := make([]float32, 3), make([]float32, 3)
	colorconv.RGB255ToRGB01(rgb[:], frgb)
	colorconv.NewFloat(tables, mode, colorconv.RGB).Convert(frgb, lab, 1)
	lab8 := make([]uint8, 3)
	colorconv.NewFixed(tables, mode, colorconv.RGB).Convert(rgb[:], lab8, 1)

	out := cmd.OutOrStdout()
	c := colorful.Color{R: float64(frgb[0]), G: float64(frgb[1]), B: float64(frgb[2])}
	fmt.Fprintf(out, "colour: %s (%s)\n", c.Hex(), mode)
	fmt.Fprintf(out, "float:  L=%.4f a=%.4f b=%.4f\n", lab[0], lab[1], lab[2])
	fmt.Fprintf(out, "fixed:  L=%d a=%d b=%d\n", lab8[0], lab8[1], lab8[2])
	if !linear {
		l, a, b := c.Lab()
		fmt.Fprintf(out, "colorful: L=%.4f a=%.4f b=%.4f\n", l*100, a*100, b*100)
	}
	return nil
}
