// Package serve exposes a trained or trainable network over HTTP.
//
// The network's training contract is strictly sequential, so the service
// serializes every operation behind a single mutex; two concurrent /train
// requests run one after the other, and /query never observes a half-updated
// parameter set.
package serve

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/checkpoint"
	"github.com/fern-ml/fern/internal/network"
)

// Service wraps a network with the locking and conversion glue the HTTP
// handlers need.
type Service struct {
	mu  sync.Mutex
	net *network.Network
}

// NewService creates a service around net.
func NewService(net *network.Network) *Service {
	return &Service{net: net}
}

// Status describes the served network's topology.
type Status struct {
	Depth       int      `json:"depth"`
	InputWidth  int      `json:"input_width"`
	OutputWidth int      `json:"output_width"`
	Activations []string `json:"activations"`
}

// Status reports the current topology.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	acts := make([]string, s.net.Depth())
	for i := range acts {
		acts[i] = s.net.Layer(i).Activation().Name()
	}
	return Status{
		Depth:       s.net.Depth(),
		InputWidth:  s.net.InputWidth(),
		OutputWidth: s.net.OutputWidth(),
		Activations: acts,
	}
}

// Query runs one forward pass.
func (s *Service) Query(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("query input is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.net.Query(mat.NewVecDense(len(input), input))
	if err != nil {
		return nil, err
	}
	return vecSlice(out), nil
}

// TrainParams are the hyperparameters of one training call.
type TrainParams struct {
	Epochs       int     `json:"epochs"`
	LearningRate float64 `json:"learning_rate"`
	Momentum     float64 `json:"momentum"`
}

// Example is the wire form of a training example.
type Example struct {
	Input    []float64 `json:"input"`
	Expected []float64 `json:"expected"`
}

// Train runs online SGD over the given examples and returns the final
// epoch's mean cost.
func (s *Service) Train(examples []Example, params TrainParams) (float64, error) {
	if len(examples) == 0 {
		return 0, fmt.Errorf("training requires at least one example")
	}
	converted := make([]network.TrainingExample, len(examples))
	for i, ex := range examples {
		if len(ex.Input) == 0 || len(ex.Expected) == 0 {
			return 0, fmt.Errorf("example %d: input and expected must be non-empty", i)
		}
		converted[i] = network.TrainingExample{
			Input:    mat.NewVecDense(len(ex.Input), ex.Input),
			Expected: mat.NewVecDense(len(ex.Expected), ex.Expected),
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.net.Train(converted, params.Epochs, params.LearningRate, params.Momentum, nil)
}

// SaveCheckpoint writes the current network to a checkpoint file.
func (s *Service) SaveCheckpoint(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return checkpoint.SaveFile(path, s.net, checkpoint.SaveOptions{})
}

// LoadCheckpoint replaces the served network with one restored from a
// checkpoint file. On error the previous network stays in place.
func (s *Service) LoadCheckpoint(path string) error {
	net, err := checkpoint.LoadFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.net = net
	return nil
}

func vecSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
