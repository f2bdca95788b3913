package network

import (
	"fmt"
	"math/rand"

	"github.com/fern-ml/fern/internal/activation"
	"github.com/fern-ml/fern/internal/initializer"
)

// Topology describes a network layout: the neuron count at every layer
// boundary, the activation of each layer, and the initialization strategy.
//
// Sizes has one entry per boundary, so a 2-2-1 network is Sizes{2, 2, 1}
// and carries len(Sizes)-1 layers. Activations must have one entry per
// layer; Init may be nil, in which case Xavier initialization with a random
// seed is used.
type Topology struct {
	Sizes       []int
	Activations []activation.Function
	Init        initializer.Factory
}

// Uniform returns an activation slice assigning act to every one of the
// layers of a network with the given number of boundaries. Convenience for
// the common single-activation topology.
func Uniform(act activation.Function, boundaries int) []activation.Function {
	acts := make([]activation.Function, boundaries-1)
	for i := range acts {
		acts[i] = act
	}
	return acts
}

// Build constructs a fully connected network from a topology description:
// an ordered, width-compatible layer sequence wrapped in a Network. The
// network consumes the sequence as-is; all wiring decisions live here.
func Build(t Topology) (*Network, error) {
	if len(t.Sizes) < 2 {
		return nil, fmt.Errorf("topology requires at least two boundary sizes, got %d", len(t.Sizes))
	}
	for i, size := range t.Sizes {
		if size <= 0 {
			return nil, fmt.Errorf("boundary %d size must be positive, got %d", i, size)
		}
	}
	if len(t.Activations) != len(t.Sizes)-1 {
		return nil, fmt.Errorf("topology with %d layers requires %d activations, got %d",
			len(t.Sizes)-1, len(t.Sizes)-1, len(t.Activations))
	}
	factory := t.Init
	if factory == nil {
		factory = initializer.XavierFactory(rand.Int63())
	}

	layers := make([]*Layer, len(t.Sizes)-1)
	for i := range layers {
		fanIn, fanOut := t.Sizes[i], t.Sizes[i+1]
		layer, err := NewLayer(fanIn, fanOut, t.Activations[i], factory(fanIn, fanOut))
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = layer
	}
	return New(layers...)
}
