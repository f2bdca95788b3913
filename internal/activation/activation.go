// Package activation implements the pointwise activation functions used by
// fern layers.
//
// Each activation is a stateless pair of elementwise maps: Transform applies
// the function to a pre-activation vector, and Derivative evaluates the
// function's slope. For every variant in this package the derivative is
// expressed in terms of the already-activated output, which is how layers
// consume it during backpropagation (they cache activations, not
// pre-activations).
//
// The set of variants is closed and mirrored by a central name registry so
// that serialization can map names to functions and back without the two
// directions drifting apart.
package activation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Function is a pointwise activation: an elementwise transform plus its
// derivative.
//
// Derivative takes the activated output of Transform, not the
// pre-activation. Sigmoid's derivative, for example, is y·(1-y) where
// y = Transform(z).
type Function interface {
	// Name returns the canonical name used by the registry and by
	// serialized checkpoints.
	Name() string

	// Transform applies the activation elementwise and returns a new
	// vector. The input is not modified.
	Transform(z *mat.VecDense) *mat.VecDense

	// Derivative evaluates the activation's slope elementwise, given the
	// already-activated output, and returns a new vector.
	Derivative(y *mat.VecDense) *mat.VecDense
}

// apply returns a new vector with f applied to every element of v.
func apply(v *mat.VecDense, f func(float64) float64) *mat.VecDense {
	out := mat.NewVecDense(v.Len(), nil)
	for i := 0; i < v.Len(); i++ {
		out.SetVec(i, f(v.AtVec(i)))
	}
	return out
}

// Sigmoid is the logistic activation: σ(x) = 1 / (1 + exp(-x)).
//
// Its derivative in terms of the output y = σ(x) is y·(1-y).
type Sigmoid struct{}

func (Sigmoid) Name() string { return "Sigmoid" }

func (Sigmoid) Transform(z *mat.VecDense) *mat.VecDense {
	return apply(z, func(x float64) float64 { return 1 / (1 + math.Exp(-x)) })
}

func (Sigmoid) Derivative(y *mat.VecDense) *mat.VecDense {
	return apply(y, func(v float64) float64 { return v * (1 - v) })
}

// Tanh is the hyperbolic tangent activation.
//
// Its derivative in terms of the output y = tanh(x) is 1 - y².
type Tanh struct{}

func (Tanh) Name() string { return "Tanh" }

func (Tanh) Transform(z *mat.VecDense) *mat.VecDense {
	return apply(z, math.Tanh)
}

func (Tanh) Derivative(y *mat.VecDense) *mat.VecDense {
	return apply(y, func(v float64) float64 { return 1 - v*v })
}

// ReLU is the rectified linear activation: f(x) = max(0, x).
//
// The derivative is the unit step. ReLU is invertible on its positive range,
// so the step can be evaluated on the activated output directly: any
// positive output came from a positive input.
type ReLU struct{}

func (ReLU) Name() string { return "ReLU" }

func (ReLU) Transform(z *mat.VecDense) *mat.VecDense {
	return apply(z, func(x float64) float64 { return math.Max(0, x) })
}

func (ReLU) Derivative(y *mat.VecDense) *mat.VecDense {
	return apply(y, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

// Softplus is the smooth ReLU: f(x) = ln(1 + exp(x)).
//
// Its derivative is the sigmoid of the pre-activation, which in terms of the
// output y = ln(1+exp(x)) rewrites to 1 - exp(-y).
type Softplus struct{}

func (Softplus) Name() string { return "Softplus" }

func (Softplus) Transform(z *mat.VecDense) *mat.VecDense {
	return apply(z, func(x float64) float64 { return math.Log1p(math.Exp(x)) })
}

func (Softplus) Derivative(y *mat.VecDense) *mat.VecDense {
	return apply(y, func(v float64) float64 { return 1 - math.Exp(-v) })
}

// registry maps canonical names to variants. Serialization uses it in both
// directions, so it must stay exhaustive.
var registry = map[string]Function{
	Sigmoid{}.Name():  Sigmoid{},
	Tanh{}.Name():     Tanh{},
	ReLU{}.Name():     ReLU{},
	Softplus{}.Name(): Softplus{},
}

// ByName resolves a canonical activation name to its variant.
//
// Returns an error for names outside the known set; callers deserializing
// checkpoints must treat that as a format error.
func ByName(name string) (Function, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown activation %q", name)
	}
	return f, nil
}

// Names returns the canonical names of all known variants. Order is not
// specified.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
