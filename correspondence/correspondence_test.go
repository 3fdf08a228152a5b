package correspondence

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Print

func TestPointsRoundTrip(t *testing.T) {
	points, values := RandomPoints(rand.New(rand.NewPCG(1, 2)), 25, 3)
	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, points, values, -1))
	p2, v2, err := ReadPoints(&buf, 3)
	require.NoError(t, err)
	if diff := cmp.Diff(points, p2); diff != "" {
		t.Fatalf("points differ after round trip (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(values, v2); diff != "" {
		t.Fatalf("values differ after round trip (-want +got):\n%s", diff)
	}
}

func TestWritePointsPrecision(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePoints(&buf, [][]float64{{0.5, -1}, {1.0 / 3, 2}}, []float64{12, 99.9999999}, 6))
	assert.Equal(t, "2\n0.500000 -1.000000 12.000000\n0.333333 2.000000 100.000000\n", buf.String())
	assert.Error(t, WritePoints(&buf, [][]float64{{1}}, nil, 6))
}

func TestReadPoints(t *testing.T) {
	points, values, err := ReadPoints(strings.NewReader("2\n1 2 3\n\t4   5\n6\n"), 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {4, 5}}, points)
	assert.Equal(t, []float64{3, 6}, values)

	points, values, err = ReadPoints(strings.NewReader("0"), 2)
	require.NoError(t, err)
	assert.Empty(t, points)
	assert.Empty(t, values)

	for _, tc := range []struct {
		name, data string
	}{
		{"empty", ""},
		{"bad count", "two\n1 2 3"},
		{"negative count", "-1"},
		{"truncated", "2\n1 2 3\n4 5"},
		{"bad number", "1\n1 x 3"},
	} {
		_, _, err := ReadPoints(strings.NewReader(tc.data), 2)
		assert.ErrorIs(t, err, ErrFormat, tc.name)
	}
	_, _, err = ReadPoints(strings.NewReader("1\n1 2"), 0)
	assert.Error(t, err)
}

func TestHugeRecordCounts(t *testing.T) {
	for _, header := range []string{
		fmt.Sprint(math.MaxInt), fmt.Sprint(math.MaxInt / 2), fmt.Sprint(uint64(1) << 62), "1000000000",
	} {
		t.Run(header, func(t *testing.T) {
			_, _, err := ReadPoints(strings.NewReader(header+"\n1 2 3\n"), 2)
			assert.ErrorIs(t, err, ErrFormat)
			_, err = ReadColorPairs(strings.NewReader(header + "\n1 2 3 4 5 6\n"))
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
	_, err := ReadColorPairs(strings.NewReader("99999999999999999999999\n1 2 3 4 5 6\n"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestColorPairs(t *testing.T) {
	pairs := [][2][3]uint8{{{0, 0, 0}, {255, 255, 255}}, {{10, 20, 30}, {12, 22, 35}}}
	var buf bytes.Buffer
	require.NoError(t, WriteColorPairs(&buf, pairs))
	assert.Equal(t, "2\n0 0 0 255 255 255\n10 20 30 12 22 35\n", buf.String())
	got, err := ReadColorPairs(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(pairs, got); diff != "" {
		t.Fatalf("colour pairs differ after round trip (-want +got):\n%s", diff)
	}

	for _, tc := range []struct {
		name, data string
	}{
		{"empty", ""},
		{"no pairs", "0\n"},
		{"out of range", "1\n1 2 3 4 5 256"},
		{"negative", "1\n1 2 3 4 -5 6"},
		{"fractional", "1\n1 2 3 4 5.5 6"},
		{"truncated", "2\n1 2 3 4 5 6\n7 8 9"},
	} {
		_, err := ReadColorPairs(strings.NewReader(tc.data))
		assert.ErrorIs(t, err, ErrFormat, tc.name)
	}
	_, err = ReadColorPairs(strings.NewReader("1\n1 2 3 4 5 256"))
	assert.ErrorContains(t, err, "colour pair 0")
}

func TestRandomPoints(t *testing.T) {
	a, av := RandomPoints(rand.New(rand.NewPCG(7, 7)), 500, 2)
	b, bv := RandomPoints(rand.New(rand.NewPCG(7, 7)), 500, 2)
	assert.Equal(t, a, b)
	assert.Equal(t, av, bv)
	require.Len(t, a, 500)
	for i, p := range a {
		require.Len(t, p, 2)
		for _, x := range p {
			require.True(t, x >= -1 && x < 1, "coordinate out of range: %v", x)
		}
		require.True(t, av[i] >= 0 && av[i] < 100, "value out of range: %v", av[i])
	}
	p, v := RandomPoints(nil, 3, 4)
	assert.Len(t, p, 3)
	assert.Len(t, v, 3)
}
