package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/activation"
	"github.com/fern-ml/fern/internal/initializer"
)

// Layer is one fully connected layer of a feedforward network.
//
// The weight matrix has shape inputWidth × outputWidth: entry (i, j) is the
// weight from input neuron i to output neuron j. The forward map is
//
//	output = activation(Wᵀ·x + b)
//
// which is the row-vector form x·W + b written column-wise.
//
// A Layer owns its weights, biases, and momentum accumulators, and nothing
// else. Per-example state (cached activations, gradients) lives in the trace
// and Gradients values threaded through Forward, Backward, and ApplyStep by
// the Network, so the same layer set can serve inference and gradient
// checking concurrently with training only if the caller serializes the
// parameter updates.
type Layer struct {
	weights *mat.Dense    // inputWidth × outputWidth
	biases  *mat.VecDense // outputWidth
	act     activation.Function

	// Momentum accumulators. Unlike gradients, these persist across
	// training steps; they start at zero.
	prevDeltaW *mat.Dense
	prevDeltaB *mat.VecDense
}

// LayerGrads holds the products of one backward pass through a single layer.
type LayerGrads struct {
	// Weights is ∂Cost/∂W, same shape as the layer's weight matrix.
	Weights *mat.Dense

	// Biases is ∂Cost/∂b, the layer's node delta.
	Biases *mat.VecDense

	// Upstream is ∂Cost/∂(previous layer's output): the error signal
	// propagated backward through this layer's weights. The first layer
	// of a network has no upstream consumer, but the value is computed
	// unconditionally; the network simply discards it there.
	Upstream *mat.VecDense
}

// NewLayer constructs a layer with the given widths and activation, filling
// weights and biases from init (consulted once per slot).
func NewLayer(inputWidth, outputWidth int, act activation.Function, init initializer.Initializer) (*Layer, error) {
	if inputWidth <= 0 || outputWidth <= 0 {
		return nil, fmt.Errorf("layer widths must be positive, got %d×%d", inputWidth, outputWidth)
	}
	if act == nil {
		return nil, fmt.Errorf("layer requires an activation function")
	}
	if init == nil {
		return nil, fmt.Errorf("layer requires an initializer")
	}

	weights := mat.NewDense(inputWidth, outputWidth, nil)
	for i := 0; i < inputWidth; i++ {
		for j := 0; j < outputWidth; j++ {
			weights.Set(i, j, init.Weight(i, j))
		}
	}
	biases := mat.NewVecDense(outputWidth, nil)
	for j := 0; j < outputWidth; j++ {
		biases.SetVec(j, init.Bias(j))
	}
	return newLayer(weights, biases, act), nil
}

// NewLayerFromParams constructs a layer around explicit parameters, as when
// restoring from a checkpoint. The weights and biases are used directly, not
// copied; rows(weights) is the input width and cols(weights) the output
// width, which must match the bias length.
func NewLayerFromParams(weights *mat.Dense, biases *mat.VecDense, act activation.Function) (*Layer, error) {
	if weights == nil || biases == nil {
		return nil, fmt.Errorf("layer requires explicit weights and biases")
	}
	if act == nil {
		return nil, fmt.Errorf("layer requires an activation function")
	}
	_, cols := weights.Dims()
	if biases.Len() != cols {
		return nil, fmt.Errorf("bias length %d does not match weight columns %d", biases.Len(), cols)
	}
	return newLayer(weights, biases, act), nil
}

func newLayer(weights *mat.Dense, biases *mat.VecDense, act activation.Function) *Layer {
	rows, cols := weights.Dims()
	return &Layer{
		weights:    weights,
		biases:     biases,
		act:        act,
		prevDeltaW: mat.NewDense(rows, cols, nil),
		prevDeltaB: mat.NewVecDense(cols, nil),
	}
}

// InputWidth returns the number of inputs this layer consumes.
func (l *Layer) InputWidth() int {
	rows, _ := l.weights.Dims()
	return rows
}

// OutputWidth returns the number of neurons in this layer.
func (l *Layer) OutputWidth() int {
	_, cols := l.weights.Dims()
	return cols
}

// Activation returns the layer's activation function.
func (l *Layer) Activation() activation.Function { return l.act }

// Weights returns the live weight matrix. Mutating it changes the layer.
func (l *Layer) Weights() *mat.Dense { return l.weights }

// Biases returns the live bias vector. Mutating it changes the layer.
func (l *Layer) Biases() *mat.VecDense { return l.biases }

// Forward computes activation(Wᵀ·x + b). It does not mutate the layer, so
// repeated calls with the same input are bit-identical.
func (l *Layer) Forward(x *mat.VecDense) (*mat.VecDense, error) {
	if x.Len() != l.InputWidth() {
		return nil, fmt.Errorf("input length %d does not match layer input width %d", x.Len(), l.InputWidth())
	}
	z := mat.NewVecDense(l.OutputWidth(), nil)
	z.MulVec(l.weights.T(), x)
	z.AddVec(z, l.biases)
	return l.act.Transform(z), nil
}

// Backward computes this layer's parameter gradients from the cached forward
// activations and the derivative of the cost with respect to this layer's
// output.
//
// cachedIn and cachedOut must come from the same forward pass; costDeriv is
// ∂Cost/∂output for that pass (for the network's last layer this is
// output - expected under the quadratic cost, for inner layers it is the
// Upstream vector computed by the layer above).
//
// The chain rule unfolds as
//
//	delta   = activation.Derivative(cachedOut) ⊙ costDeriv
//	∂C/∂W   = cachedIn ⊗ delta
//	∂C/∂b   = delta
//	upstream = W·delta
func (l *Layer) Backward(cachedIn, cachedOut, costDeriv *mat.VecDense) (*LayerGrads, error) {
	if cachedIn.Len() != l.InputWidth() {
		return nil, fmt.Errorf("cached input length %d does not match layer input width %d", cachedIn.Len(), l.InputWidth())
	}
	if cachedOut.Len() != l.OutputWidth() {
		return nil, fmt.Errorf("cached output length %d does not match layer output width %d", cachedOut.Len(), l.OutputWidth())
	}
	if costDeriv.Len() != l.OutputWidth() {
		return nil, fmt.Errorf("cost derivative length %d does not match layer output width %d", costDeriv.Len(), l.OutputWidth())
	}

	delta := mat.NewVecDense(l.OutputWidth(), nil)
	delta.MulElemVec(l.act.Derivative(cachedOut), costDeriv)

	wGrad := mat.NewDense(l.InputWidth(), l.OutputWidth(), nil)
	wGrad.Outer(1, cachedIn, delta)

	upstream := mat.NewVecDense(l.InputWidth(), nil)
	upstream.MulVec(l.weights, delta)

	return &LayerGrads{Weights: wGrad, Biases: delta, Upstream: upstream}, nil
}

// ApplyStep performs one gradient-descent update with momentum:
//
//	ΔW = learningRate·∂C/∂W + momentum·ΔW_prev
//	W  = W - ΔW
//
// and likewise for biases. The freshly blended deltas become the new
// momentum accumulators.
func (l *Layer) ApplyStep(grads *LayerGrads, learningRate, momentum float64) error {
	rows, cols := l.weights.Dims()
	gr, gc := grads.Weights.Dims()
	if gr != rows || gc != cols {
		return fmt.Errorf("weight gradient shape %d×%d does not match layer shape %d×%d", gr, gc, rows, cols)
	}
	if grads.Biases.Len() != cols {
		return fmt.Errorf("bias gradient length %d does not match layer output width %d", grads.Biases.Len(), cols)
	}

	deltaW := mat.NewDense(rows, cols, nil)
	deltaW.Scale(learningRate, grads.Weights)
	scaledPrev := mat.NewDense(rows, cols, nil)
	scaledPrev.Scale(momentum, l.prevDeltaW)
	deltaW.Add(deltaW, scaledPrev)
	l.weights.Sub(l.weights, deltaW)
	l.prevDeltaW = deltaW

	deltaB := mat.NewVecDense(cols, nil)
	deltaB.ScaleVec(learningRate, grads.Biases)
	deltaB.AddScaledVec(deltaB, momentum, l.prevDeltaB)
	l.biases.SubVec(l.biases, deltaB)
	l.prevDeltaB = deltaB

	return nil
}
