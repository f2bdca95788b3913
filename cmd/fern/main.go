// Package main provides the fern CLI: train a network on CSV data and query
// a saved checkpoint.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/activation"
	"github.com/fern-ml/fern/checkpoint"
	"github.com/fern-ml/fern/initializer"
	"github.com/fern-ml/fern/network"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "version":
		fmt.Printf("fern %s\n", version)
	case "train":
		if err := runTrain(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "fern train: %v\n", err)
			os.Exit(1)
		}
	case "query":
		if err := runQuery(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "fern query: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("fern - feedforward neural networks for Go")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  train      Train a network on CSV data and save a checkpoint")
	fmt.Println("  query      Run a forward pass against a saved checkpoint")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	data := fs.String("data", "", "CSV file: input columns followed by expected-output columns")
	topology := fs.String("topology", "", "comma-separated layer sizes, e.g. 2,2,1")
	actName := fs.String("activation", "Sigmoid", "activation for every layer")
	epochs := fs.Int("epochs", 1000, "number of training epochs")
	lr := fs.Float64("lr", 0.5, "learning rate")
	momentum := fs.Float64("momentum", 0.9, "momentum factor")
	seed := fs.Int64("seed", 1, "initialization seed")
	out := fs.String("out", "model.fern", "checkpoint output path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *data == "" || *topology == "" {
		return fmt.Errorf("both -data and -topology are required")
	}

	sizes, err := parseInts(*topology)
	if err != nil {
		return fmt.Errorf("parsing -topology: %w", err)
	}
	act, err := activation.ByName(*actName)
	if err != nil {
		return err
	}
	net, err := network.Build(network.Topology{
		Sizes:       sizes,
		Activations: network.Uniform(act, len(sizes)),
		Init:        initializer.XavierFactory(*seed),
	})
	if err != nil {
		return err
	}

	examples, err := loadCSV(*data, net.InputWidth(), net.OutputWidth())
	if err != nil {
		return err
	}

	meanCost, err := net.Train(examples, *epochs, *lr, *momentum, func(p network.Progress) {
		if p.Example == p.TotalExamples-1 && (p.Epoch+1)%100 == 0 {
			fmt.Printf("epoch %d/%d  mean cost %.6f\n", p.Epoch+1, p.TotalEpochs, p.MeanCost)
		}
	})
	if err != nil {
		return err
	}
	fmt.Printf("trained %d epochs over %d examples, final mean cost %.6f\n", *epochs, len(examples), meanCost)

	err = checkpoint.SaveFile(*out, net, checkpoint.SaveOptions{
		Training: &checkpoint.TrainingMeta{
			Epochs:       *epochs,
			LearningRate: *lr,
			Momentum:     *momentum,
			MeanCost:     meanCost,
		},
	})
	if err != nil {
		return err
	}
	fmt.Printf("saved checkpoint to %s\n", *out)
	return nil
}

func runQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	model := fs.String("model", "model.fern", "checkpoint path")
	input := fs.String("input", "", "comma-separated input vector")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("-input is required")
	}

	net, err := checkpoint.LoadFile(*model)
	if err != nil {
		return err
	}
	values, err := parseFloats(*input)
	if err != nil {
		return fmt.Errorf("parsing -input: %w", err)
	}
	output, err := net.Query(mat.NewVecDense(len(values), values))
	if err != nil {
		return err
	}
	for i := 0; i < output.Len(); i++ {
		if i > 0 {
			fmt.Print(",")
		}
		fmt.Printf("%g", output.AtVec(i))
	}
	fmt.Println()
	return nil
}

// loadCSV reads one training example per row: inputWidth input columns
// followed by outputWidth expected-output columns.
func loadCSV(path string, inputWidth, outputWidth int) ([]network.TrainingExample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	examples := make([]network.TrainingExample, 0, len(rows))
	for i, row := range rows {
		if len(row) != inputWidth+outputWidth {
			return nil, fmt.Errorf("%s row %d: got %d columns, want %d input + %d output",
				path, i+1, len(row), inputWidth, outputWidth)
		}
		values := make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %d: %w", path, i+1, j+1, err)
			}
			values[j] = v
		}
		examples = append(examples, network.TrainingExample{
			Input:    mat.NewVecDense(inputWidth, values[:inputWidth]),
			Expected: mat.NewVecDense(outputWidth, values[inputWidth:]),
		})
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%s contains no rows", path)
	}
	return examples, nil
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
