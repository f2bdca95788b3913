// Package network implements the core of fern: fully connected layers and
// the feedforward network that trains them with online stochastic gradient
// descent and momentum.
//
// Backpropagation is written out explicitly rather than delegated to an
// autodiff engine: each layer knows the chain-rule products linking the cost
// gradient at its output to its own weight and bias gradients and to the
// error signal for the layer below. The network owns the ordered layer
// sequence and drives the three phases of a training step as index loops
// (forward first→last, backward last→first, update first→last); layers hold
// no links to their neighbors.
package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TrainingExample pairs an input vector with its expected output. Examples
// are owned by the caller and read-only to the network.
type TrainingExample struct {
	Input    *mat.VecDense
	Expected *mat.VecDense
}

// Progress is a per-example training snapshot delivered to an Observer.
type Progress struct {
	Epoch         int // current epoch, 0-based
	TotalEpochs   int
	Example       int // current example within the epoch, 0-based
	TotalExamples int
	MeanCost      float64 // running mean cost over the current epoch so far
}

// Observer receives a Progress snapshot after every trained example. It is
// invoked synchronously from the training loop; a slow observer slows
// training.
type Observer func(Progress)

// trace records the activations of one forward pass: the input each layer
// consumed and the output it produced. A trace is the per-example state that
// a backward pass needs; keeping it outside the layers means concurrent
// forward passes over the same network cannot clobber each other's caches.
type trace struct {
	inputs  []*mat.VecDense
	outputs []*mat.VecDense
}

// Output returns the final layer's activated output.
func (t *trace) Output() *mat.VecDense {
	return t.outputs[len(t.outputs)-1]
}

// Gradients holds one backward pass's per-layer gradients, indexed in layer
// order (first layer at index 0).
type Gradients struct {
	Layers []*LayerGrads
}

// Network is an ordered sequence of layers, first to last. Adjacent layers
// are width-compatible by construction.
type Network struct {
	layers []*Layer
}

// New assembles a network from an ordered layer sequence.
//
// The sequence must be non-empty and each layer's input width must equal the
// previous layer's output width; violations are reported as errors rather
// than surfacing later as silent shape corruption.
func New(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("network requires at least one layer")
	}
	for i := 1; i < len(layers); i++ {
		if layers[i].InputWidth() != layers[i-1].OutputWidth() {
			return nil, fmt.Errorf("layer %d input width %d does not match layer %d output width %d",
				i, layers[i].InputWidth(), i-1, layers[i-1].OutputWidth())
		}
	}
	return &Network{layers: layers}, nil
}

// Depth returns the number of layers.
func (n *Network) Depth() int { return len(n.layers) }

// Layer returns the layer at index i (0 = first).
func (n *Network) Layer(i int) *Layer { return n.layers[i] }

// InputWidth returns the width the network's input vectors must have.
func (n *Network) InputWidth() int { return n.layers[0].InputWidth() }

// OutputWidth returns the width of the network's output vectors.
func (n *Network) OutputWidth() int { return n.layers[len(n.layers)-1].OutputWidth() }

// Query runs a forward pass and returns the network's output. It has no
// training side effects and is deterministic for fixed parameters.
func (n *Network) Query(input *mat.VecDense) (*mat.VecDense, error) {
	tr, err := n.forward(input)
	if err != nil {
		return nil, err
	}
	return tr.Output(), nil
}

// forward threads input through every layer in order, recording per-layer
// activations in the returned trace.
func (n *Network) forward(input *mat.VecDense) (*trace, error) {
	tr := &trace{
		inputs:  make([]*mat.VecDense, len(n.layers)),
		outputs: make([]*mat.VecDense, len(n.layers)),
	}
	x := input
	for i, layer := range n.layers {
		y, err := layer.Forward(x)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		tr.inputs[i] = x
		tr.outputs[i] = y
		x = y
	}
	return tr, nil
}

// backward runs the chain rule from the last layer down to the first.
// costDeriv is ∂Cost/∂(network output); each layer's Upstream vector becomes
// the cost derivative of the layer below it, and the first layer's upstream
// signal is discarded.
func (n *Network) backward(tr *trace, costDeriv *mat.VecDense) (*Gradients, error) {
	grads := &Gradients{Layers: make([]*LayerGrads, len(n.layers))}
	deriv := costDeriv
	for i := len(n.layers) - 1; i >= 0; i-- {
		lg, err := n.layers[i].Backward(tr.inputs[i], tr.outputs[i], deriv)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		grads.Layers[i] = lg
		deriv = lg.Upstream
	}
	return grads, nil
}

// applyStep updates every layer's parameters from grads, first to last.
func (n *Network) applyStep(grads *Gradients, learningRate, momentum float64) error {
	for i, layer := range n.layers {
		if err := layer.ApplyStep(grads.Layers[i], learningRate, momentum); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Gradients computes the per-layer gradients for a single example without
// updating any parameters. This is the forward+backward half of a training
// step, exposed for gradient inspection and numeric checking.
func (n *Network) Gradients(example TrainingExample) (*Gradients, error) {
	if err := n.checkExample(example); err != nil {
		return nil, err
	}
	tr, err := n.forward(example.Input)
	if err != nil {
		return nil, err
	}
	costDeriv := mat.NewVecDense(n.OutputWidth(), nil)
	costDeriv.SubVec(tr.Output(), example.Expected)
	return n.backward(tr, costDeriv)
}

// Train runs online stochastic gradient descent: epochs full passes over
// examples in the given order (no shuffling), updating parameters after
// every single example. Because each example's forward pass sees the weights
// mutated by the previous one, example order shapes the learned result
// deterministically.
//
// The per-example cost is the quadratic cost 0.5·Σ(expected-output)². After
// each example the running mean cost for the current epoch is recomputed and,
// if observer is non-nil, delivered synchronously. The return value is the
// mean cost over the final epoch.
func (n *Network) Train(examples []TrainingExample, epochs int, learningRate, momentum float64, observer Observer) (float64, error) {
	if len(examples) == 0 {
		return 0, fmt.Errorf("training requires at least one example")
	}
	if epochs <= 0 {
		return 0, fmt.Errorf("epoch count must be positive, got %d", epochs)
	}
	for i, ex := range examples {
		if err := n.checkExample(ex); err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
	}

	meanCost := 0.0
	for epoch := 0; epoch < epochs; epoch++ {
		meanCost = 0
		for i, ex := range examples {
			tr, err := n.forward(ex.Input)
			if err != nil {
				return 0, err
			}
			output := tr.Output()

			costDeriv := mat.NewVecDense(n.OutputWidth(), nil)
			costDeriv.SubVec(output, ex.Expected)

			grads, err := n.backward(tr, costDeriv)
			if err != nil {
				return 0, err
			}
			if err := n.applyStep(grads, learningRate, momentum); err != nil {
				return 0, err
			}

			meanCost += (quadraticCost(ex.Expected, output) - meanCost) / float64(i+1)
			if observer != nil {
				observer(Progress{
					Epoch:         epoch,
					TotalEpochs:   epochs,
					Example:       i,
					TotalExamples: len(examples),
					MeanCost:      meanCost,
				})
			}
		}
	}
	return meanCost, nil
}

// Cost returns the mean quadratic cost over examples without training.
func (n *Network) Cost(examples []TrainingExample) (float64, error) {
	if len(examples) == 0 {
		return 0, fmt.Errorf("cost requires at least one example")
	}
	total := 0.0
	for i, ex := range examples {
		if err := n.checkExample(ex); err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		output, err := n.Query(ex.Input)
		if err != nil {
			return 0, err
		}
		total += quadraticCost(ex.Expected, output)
	}
	return total / float64(len(examples)), nil
}

// Accuracy returns the fraction of examples whose highest-valued output
// neuron matches the highest-valued expected neuron. Only meaningful for
// classification-shaped data such as one-hot targets.
func (n *Network) Accuracy(examples []TrainingExample) (float64, error) {
	if len(examples) == 0 {
		return 0, fmt.Errorf("accuracy requires at least one example")
	}
	correct := 0
	for i, ex := range examples {
		if err := n.checkExample(ex); err != nil {
			return 0, fmt.Errorf("example %d: %w", i, err)
		}
		output, err := n.Query(ex.Input)
		if err != nil {
			return 0, err
		}
		if argmax(output) == argmax(ex.Expected) {
			correct++
		}
	}
	return float64(correct) / float64(len(examples)), nil
}

func (n *Network) checkExample(ex TrainingExample) error {
	if ex.Input == nil || ex.Expected == nil {
		return fmt.Errorf("example requires both input and expected vectors")
	}
	if ex.Input.Len() != n.InputWidth() {
		return fmt.Errorf("input length %d does not match network input width %d", ex.Input.Len(), n.InputWidth())
	}
	if ex.Expected.Len() != n.OutputWidth() {
		return fmt.Errorf("expected output length %d does not match network output width %d", ex.Expected.Len(), n.OutputWidth())
	}
	return nil
}

// quadraticCost is 0.5·Σ(expected-output)², summed (not averaged) over
// output dimensions.
func quadraticCost(expected, output *mat.VecDense) float64 {
	diff := mat.NewVecDense(expected.Len(), nil)
	diff.SubVec(expected, output)
	return 0.5 * mat.Dot(diff, diff)
}

func argmax(v *mat.VecDense) int {
	best := 0
	for i := 1; i < v.Len(); i++ {
		if v.AtVec(i) > v.AtVec(best) {
			best = i
		}
	}
	return best
}
