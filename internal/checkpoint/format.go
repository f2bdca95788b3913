package checkpoint

import "time"

// Format constants.
const (
	Magic         = "FERN"
	FormatVersion = 1

	// fernVersion is stamped into files this library writes.
	fernVersion = "v0.1.0"
)

// File is the persisted form of a network: a JSON document with a small
// envelope followed by the ordered layer records.
type File struct {
	Magic         string            `json:"magic"`          // Always "FERN"
	FormatVersion int               `json:"format_version"` // Version of the checkpoint format
	FernVersion   string            `json:"fern_version"`   // Version of fern that created the file
	CheckpointID  string            `json:"checkpoint_id"`  // Random UUID assigned at save time
	CreatedAt     time.Time         `json:"created_at"`     // When the file was created
	Metadata      map[string]string `json:"metadata,omitempty"`
	Training      *TrainingMeta     `json:"training,omitempty"`
	Layers        []LayerRecord     `json:"layers"` // First layer first
}

// TrainingMeta optionally records how the checkpointed network was trained.
type TrainingMeta struct {
	Epochs       int     `json:"epochs"`
	LearningRate float64 `json:"learning_rate"`
	Momentum     float64 `json:"momentum"`
	MeanCost     float64 `json:"mean_cost"` // Mean cost over the final epoch
}

// LayerRecord is one layer's parameters. Weights are row-major with
// len(Weights) rows of equal length; row i, column j is the weight from
// input neuron i to output neuron j. The activation name must be one of the
// canonical names known to the activation registry.
type LayerRecord struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}
