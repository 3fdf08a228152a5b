package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kovidgoyal/labtransfer"
	"github.com/kovidgoyal/labtransfer/colorconv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

// reset_flags restores every flag of cmd and its subcommands to its default
// so that one Execute does not leak state into the next.
func reset_flags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			require.NoError(t, sv.Replace(nil))
		} else {
			require.NoError(t, f.Value.Set(f.DefValue))
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		reset_flags(t, c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reset_flags(t, rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRandpointsThenFit(t *testing.T) {
	dir := t.TempDir()
	points := filepath.Join(dir, "points.txt")
	_, err := run(t, "randpoints", "-n", "20", "-d", "2", "-o", points, "--seed", "42")
	require.NoError(t, err)
	data, err := os.ReadFile(points)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "20", lines[0])
	first := strings.Fields(lines[1])
	require.Len(t, first, 3)

	out, err := run(t, "fit", "-i", points, "-d", "2", "-q", first[0]+","+first[1], "-q", "0,0")
	require.NoError(t, err)
	assert.Contains(t, out, "points: 20 dim: 2")
	assert.Contains(t, out, "rank: ")
	assert.Contains(t, out, first[0]+","+first[1]+" -> ")

	_, err = run(t, "fit", "-i", points, "-d", "2", "-q", "1,2,3")
	assert.ErrorContains(t, err, "expected 2")
	_, err = run(t, "fit", "-i", points, "--kernel", "gaussian")
	assert.Error(t, err)
}

func TestRepeatedFitQueriesDoNotAccumulate(t *testing.T) {
	dir := t.TempDir()
	points := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(points, []byte("2\n0 0 10\n1 1 20\n"), 0o644))

	out, err := run(t, "fit", "-i", points, "-q", "0.25,0.25", "-q", "0.5,0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "0.25,0.25 -> ")
	assert.Contains(t, out, "0.5,0.5 -> 15.000000")

	out, err = run(t, "fit", "-i", points, "-q", "1,1")
	require.NoError(t, err)
	assert.Contains(t, out, "1,1 -> 20.000000")
	assert.NotContains(t, out, "0.25,0.25")
	assert.NotContains(t, out, "0.5,0.5")

	out, err = run(t, "fit", "-i", points)
	require.NoError(t, err)
	assert.NotContains(t, out, " -> ")
	assert.Contains(t, out, "normalized: true")
}

func TestLab(t *testing.T) {
	out, err := run(t, "lab", "255", "255", "255")
	require.NoError(t, err)
	assert.Contains(t, out, "#ffffff")
	assert.Contains(t, out, "float:  L=100.0000")
	assert.Contains(t, out, "fixed:  L=255 a=128 b=128")
	_, err = run(t, "lab", "1", "2", "300")
	assert.Error(t, err)
}

func TestTransfer(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{200, 30, 30, 255})
	img.SetNRGBA(1, 0, color.NRGBA{30, 30, 200, 255})
	input, output, pairs := filepath.Join(dir, "in.png"), filepath.Join(dir, "out.png"), filepath.Join(dir, "pairs.txt")
	require.NoError(t, labtransfer.Save(img, input))
	require.NoError(t, os.WriteFile(pairs, []byte("2\n200 30 30 180 50 40\n30 30 200 50 40 180\n"), 0o644))

	_, err := run(t, "transfer", "-i", input, "-p", pairs, "-o", output, "--workers", "2")
	require.NoError(t, err)
	res, err := labtransfer.Open(output)
	require.NoError(t, err)
	p := labtransfer.ToPixels(res, colorconv.RGB)
	for i, expected := range [][]uint8{{180, 50, 40}, {50, 40, 180}} {
		actual := p.Pix[i*3 : i*3+3]
		for c := range 3 {
			assert.InDelta(t, int(expected[c]), int(actual[c]), 1, "pixel %d: %v", i, actual)
		}
	}

	_, err = run(t, "transfer", "-i", input, "-p", pairs, "-o", filepath.Join(dir, "out.xyz"))
	assert.ErrorIs(t, err, labtransfer.ErrUnsupportedFormat)
}
