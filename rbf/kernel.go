package rbf

import (
	"fmt"
	"math"
	"strings"
)

var _ = fmt.Print

const (
	DefaultShepardPower           = 2
	DefaultNormalizedShepardPower = 3.7975
	// Distances below this are treated as this by Shepard so that the kernel
	// stays finite at zero.
	ShepardMinRadius = 1e-6
)

// Kernel maps a non-negative distance to a weight.
type Kernel interface {
	Eval(r float64) float64
	String() string
}

// Shepard is the inverse distance kernel r^-P.
type Shepard struct{ P float64 }

func (k Shepard) Eval(r float64) float64 {
	return math.Pow(max(r, ShepardMinRadius), -k.P)
}

func (k Shepard) String() string { return fmt.Sprintf("shepard(p=%g)", k.P) }

// NormalizedShepard is (1+r)^-P, which is 1 at zero distance.
type NormalizedShepard struct{ P float64 }

func (k NormalizedShepard) Eval(r float64) float64 {
	return math.Pow(1+r, -k.P)
}

func (k NormalizedShepard) String() string { return fmt.Sprintf("normshepard(p=%g)", k.P) }

// ParseKernel returns the kernel with the specified name. A power <= 0
// selects the default power for that kernel.
func ParseKernel(name string, power float64) (Kernel, error) {
	switch strings.ToLower(name) {
	case "shepard":
		if power <= 0 {
			power = DefaultShepardPower
		}
		return Shepard{P: power}, nil
	case "normshepard", "normalized-shepard", "normalizedshepard":
		if power <= 0 {
			power = DefaultNormalizedShepardPower
		}
		return NormalizedShepard{P: power}, nil
	}
	return nil, fmt.Errorf("unknown kernel: %q", name)
}
