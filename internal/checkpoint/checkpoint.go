// Package checkpoint serializes trained networks to and from the .fern
// checkpoint format: a JSON document carrying a magic/version envelope and
// an ordered list of layer records (row-major weights, biases, activation
// name).
//
// Loading reconstructs layers directly from the recorded parameters,
// bypassing weight initialization, and re-validates the layer chain. A file
// naming an activation outside the known set fails fast with
// ErrUnknownActivation; no partial network is ever returned.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/internal/activation"
	"github.com/fern-ml/fern/internal/network"
)

// SaveOptions carries the optional envelope fields of a checkpoint.
type SaveOptions struct {
	Metadata map[string]string
	Training *TrainingMeta
}

// Save writes net to w as a .fern checkpoint. Each save produces a fresh
// checkpoint UUID and timestamp, so saving the same network twice yields two
// distinct files with identical layer records.
func Save(w io.Writer, net *network.Network, opts SaveOptions) error {
	file := File{
		Magic:         Magic,
		FormatVersion: FormatVersion,
		FernVersion:   fernVersion,
		CheckpointID:  uuid.New().String(),
		CreatedAt:     time.Now().UTC(),
		Metadata:      opts.Metadata,
		Training:      opts.Training,
		Layers:        make([]LayerRecord, net.Depth()),
	}
	for i := 0; i < net.Depth(); i++ {
		file.Layers[i] = recordLayer(net.Layer(i))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	return nil
}

// Load reads a .fern checkpoint from r and reconstructs the network it
// describes. The returned network's Query output is float-identical to the
// saved network's.
func Load(r io.Reader) (*network.Network, error) {
	var file File
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding checkpoint: %w", err)
	}
	if file.Magic != Magic {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMagic, file.Magic)
	}
	if file.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, support %d", ErrUnsupportedVersion, file.FormatVersion, FormatVersion)
	}
	if len(file.Layers) == 0 {
		return nil, ErrNoLayers
	}

	layers := make([]*network.Layer, len(file.Layers))
	for i, rec := range file.Layers {
		layer, err := restoreLayer(rec)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = layer
	}
	net, err := network.New(layers...)
	if err != nil {
		return nil, fmt.Errorf("reassembling layer chain: %w", err)
	}
	return net, nil
}

// SaveFile writes net to a checkpoint file at path.
func SaveFile(path string, net *network.Network, opts SaveOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating checkpoint file: %w", err)
	}
	defer f.Close()
	if err := Save(f, net, opts); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile reads a checkpoint file from path.
func LoadFile(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func recordLayer(l *network.Layer) LayerRecord {
	rows, cols := l.InputWidth(), l.OutputWidth()
	weights := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, cols)
		for j := 0; j < cols; j++ {
			row[j] = l.Weights().At(i, j)
		}
		weights[i] = row
	}
	biases := make([]float64, cols)
	for j := 0; j < cols; j++ {
		biases[j] = l.Biases().AtVec(j)
	}
	return LayerRecord{Weights: weights, Biases: biases, Activation: l.Activation().Name()}
}

func restoreLayer(rec LayerRecord) (*network.Layer, error) {
	act, err := activation.ByName(rec.Activation)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, rec.Activation)
	}

	rows := len(rec.Weights)
	if rows == 0 {
		return nil, fmt.Errorf("%w: empty weight matrix", ErrShapeMismatch)
	}
	cols := len(rec.Weights[0])
	if cols == 0 {
		return nil, fmt.Errorf("%w: weight rows are empty", ErrShapeMismatch)
	}
	weights := mat.NewDense(rows, cols, nil)
	for i, row := range rec.Weights {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: weight row %d has %d columns, row 0 has %d", ErrShapeMismatch, i, len(row), cols)
		}
		for j, v := range row {
			weights.Set(i, j, v)
		}
	}
	if len(rec.Biases) != cols {
		return nil, fmt.Errorf("%w: %d biases for %d output neurons", ErrShapeMismatch, len(rec.Biases), cols)
	}
	biases := mat.NewVecDense(cols, rec.Biases)

	return network.NewLayerFromParams(weights, biases, act)
}
