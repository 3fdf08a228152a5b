// Package correspondence reads and writes the whitespace separated text
// formats used to exchange support points and sampled colour pairs.
//
// A points file starts with the number of records N followed by N records,
// each made of the coordinates of a point and its value:
//
//	3
//	0.5 -0.25 12
//	...
//
// A colour pairs file starts with the number of pairs K followed by K pairs
// of 8-bit RGB triples, the source colour first:
//
//	2
//	10 20 30 12 22 35
//	...
package correspondence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
)

var _ = fmt.Print

var ErrFormat = errors.New("malformed correspondence data")

// max_prealloc bounds the capacity reserved from a record count before any
// records have been read.
const max_prealloc = 4096

type scanner struct {
	s *bufio.Scanner
}

func new_scanner(r io.Reader) *scanner {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &scanner{s: s}
}

func (s *scanner) next(what string) (string, error) {
	if s.s.Scan() {
		return s.s.Text(), nil
	}
	if err := s.s.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%w: unexpected end of data reading %s", ErrFormat, what)
}

func (s *scanner) count() (int, error) {
	t, err := s.next("the record count")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid record count: %q", ErrFormat, t)
	}
	return n, nil
}

func (s *scanner) float(record int) (float64, error) {
	t, err := s.next(fmt.Sprintf("record %d", record))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: record %d: invalid number: %q", ErrFormat, record, t)
	}
	return v, nil
}

func (s *scanner) sample(record int) (uint8, error) {
	t, err := s.next(fmt.Sprintf("colour pair %d", record))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(t)
	if err != nil || v < 0 || v > 255 {
		return 0, fmt.Errorf("%w: colour pair %d: invalid 8-bit sample: %q", ErrFormat, record, t)
	}
	return uint8(v), nil
}

// ReadPoints reads a points file of dim dimensional points.
func ReadPoints(r io.Reader, dim int) (points [][]float64, values []float64, err error) {
	if dim < 1 {
		return nil, nil, fmt.Errorf("invalid point dimension: %d", dim)
	}
	s := new_scanner(r)
	n, err := s.count()
	if err != nil {
		return nil, nil, err
	}
	if n > math.MaxInt/(dim+1) {
		return nil, nil, fmt.Errorf("%w: record count too large: %d", ErrFormat, n)
	}
	points, values = make([][]float64, 0, min(n, max_prealloc)), make([]float64, 0, min(n, max_prealloc))
	for i := range n {
		p := make([]float64, dim)
		for j := range p {
			if p[j], err = s.float(i); err != nil {
				return nil, nil, err
			}
		}
		var v float64
		if v, err = s.float(i); err != nil {
			return nil, nil, err
		}
		points, values = append(points, p), append(values, v)
	}
	return
}

// WritePoints writes a points file. prec is the number of digits after the
// decimal point, or -1 for the shortest representation that reads back
// exactly.
func WritePoints(w io.Writer, points [][]float64, values []float64, prec int) error {
	if len(points) != len(values) {
		return fmt.Errorf("cannot write %d points with %d values", len(points), len(values))
	}
	format := byte('f')
	if prec < 0 {
		format = 'g'
	}
	bw := bufio.NewWriter(w)
	buf := strconv.AppendInt(nil, int64(len(points)), 10)
	buf = append(buf, '\n')
	if _, err := bw.Write(buf); err != nil {
		return err
	}
	for i, p := range points {
		buf = buf[:0]
		for _, x := range p {
			buf = strconv.AppendFloat(buf, x, format, prec, 64)
			buf = append(buf, ' ')
		}
		buf = strconv.AppendFloat(buf, values[i], format, prec, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadColorPairs reads a colour pairs file. A file with no pairs is an error.
func ReadColorPairs(r io.Reader) ([][2][3]uint8, error) {
	s := new_scanner(r)
	n, err := s.count()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no colour pairs", ErrFormat)
	}
	ans := make([][2][3]uint8, 0, min(n, max_prealloc))
	for i := range n {
		var pair [2][3]uint8
		for c := range 2 {
			for j := range 3 {
				if pair[c][j], err = s.sample(i); err != nil {
					return nil, err
				}
			}
		}
		ans = append(ans, pair)
	}
	return ans, nil
}

func WriteColorPairs(w io.Writer, pairs [][2][3]uint8) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(pairs))
	for _, p := range pairs {
		fmt.Fprintf(bw, "%d %d %d %d %d %d\n", p[0][0], p[0][1], p[0][2], p[1][0], p[1][1], p[1][2])
	}
	return bw.Flush()
}

// RandomPoints generates n points with coordinates uniformly distributed in
// [-1, 1) and values uniformly distributed in [0, 100). A nil rng uses the
// global source.
func RandomPoints(rng *rand.Rand, n, dim int) (points [][]float64, values []float64) {
	float := rand.Float64
	if rng != nil {
		float = rng.Float64
	}
	points, values = make([][]float64, n), make([]float64, n)
	for i := range n {
		p := make([]float64, dim)
		for j := range p {
			p[j] = 2*float() - 1
		}
		points[i] = p
		values[i] = 100 * float()
	}
	return
}
