// Package initializer provides the weight and bias initialization strategies
// consulted when layers are constructed.
//
// An Initializer is queried exactly once per weight and bias slot. Strategies
// that depend on layer fan sizes (Xavier, He) are produced through a Factory
// so the layout builder can instantiate them per layer.
package initializer

import (
	"math"
	"math/rand"
)

// Initializer supplies initial values for a single layer's parameters.
type Initializer interface {
	// Weight returns the initial value for the weight at (row, col).
	Weight(row, col int) float64

	// Bias returns the initial value for the bias at index.
	Bias(index int) float64
}

// Factory builds an Initializer for a layer given its fan-in and fan-out.
type Factory func(fanIn, fanOut int) Initializer

// Xavier draws weights uniformly from ±sqrt(6/(fanIn+fanOut)) and sets
// biases to zero. A good default for sigmoid and tanh layers.
type Xavier struct {
	limit float64
	rng   *rand.Rand
}

// NewXavier creates a Xavier/Glorot uniform initializer for the given fan
// sizes, seeded deterministically.
func NewXavier(fanIn, fanOut int, seed int64) *Xavier {
	return &Xavier{
		limit: math.Sqrt(6 / float64(fanIn+fanOut)),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// XavierFactory returns a Factory producing Xavier initializers. Each layer
// gets its own stream derived from seed, so a fixed seed yields a fully
// reproducible network.
func XavierFactory(seed int64) Factory {
	next := seed
	return func(fanIn, fanOut int) Initializer {
		next++
		return NewXavier(fanIn, fanOut, next)
	}
}

func (x *Xavier) Weight(row, col int) float64 {
	return (x.rng.Float64()*2 - 1) * x.limit
}

func (x *Xavier) Bias(index int) float64 { return 0 }

// He draws weights from a normal distribution with standard deviation
// sqrt(2/fanIn) and sets biases to zero. The usual choice for ReLU layers.
type He struct {
	scale float64
	rng   *rand.Rand
}

// NewHe creates a He-normal initializer for the given fan-in, seeded
// deterministically.
func NewHe(fanIn int, seed int64) *He {
	return &He{
		scale: math.Sqrt(2 / float64(fanIn)),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// HeFactory returns a Factory producing He initializers.
func HeFactory(seed int64) Factory {
	next := seed
	return func(fanIn, fanOut int) Initializer {
		next++
		return NewHe(fanIn, next)
	}
}

func (h *He) Weight(row, col int) float64 {
	return h.rng.NormFloat64() * h.scale
}

func (h *He) Bias(index int) float64 { return 0 }

// Constant initializes every weight to W and every bias to B. Mostly useful
// in tests where exact parameter values matter.
type Constant struct {
	W float64
	B float64
}

func (c Constant) Weight(row, col int) float64 { return c.W }

func (c Constant) Bias(index int) float64 { return c.B }

// Zero initializes all parameters to zero.
var Zero = Constant{}

// ConstantFactory returns a Factory producing the same Constant initializer
// for every layer.
func ConstantFactory(w, b float64) Factory {
	return func(fanIn, fanOut int) Initializer { return Constant{W: w, B: b} }
}
