// Package main provides fernd, an HTTP daemon serving a fern network for
// querying, online training, and checkpointing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fern-ml/fern/activation"
	"github.com/fern-ml/fern/checkpoint"
	"github.com/fern-ml/fern/initializer"
	"github.com/fern-ml/fern/internal/serve"
	"github.com/fern-ml/fern/network"
)

func main() {
	port := flag.String("port", "8080", "HTTP listen port")
	model := flag.String("model", "", "checkpoint to serve (mutually exclusive with -topology)")
	topology := flag.String("topology", "", "comma-separated layer sizes for a fresh network, e.g. 2,2,1")
	actName := flag.String("activation", "Sigmoid", "activation for every layer of a fresh network")
	seed := flag.Int64("seed", 1, "initialization seed for a fresh network")
	flag.Parse()

	net, err := buildNetwork(*model, *topology, *actName, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fernd: %v\n", err)
		os.Exit(1)
	}

	server := serve.NewHTTPServer(*port, serve.NewService(net))
	fmt.Printf("fernd listening on :%s (%d layers, %d→%d)\n",
		*port, net.Depth(), net.InputWidth(), net.OutputWidth())
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "fernd: %v\n", err)
		os.Exit(1)
	}
}

func buildNetwork(model, topology, actName string, seed int64) (*network.Network, error) {
	switch {
	case model != "" && topology != "":
		return nil, fmt.Errorf("-model and -topology are mutually exclusive")
	case model != "":
		return checkpoint.LoadFile(model)
	case topology != "":
		parts := strings.Split(topology, ",")
		sizes := make([]int, len(parts))
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, fmt.Errorf("parsing -topology: %w", err)
			}
			sizes[i] = v
		}
		act, err := activation.ByName(actName)
		if err != nil {
			return nil, err
		}
		return network.Build(network.Topology{
			Sizes:       sizes,
			Activations: network.Uniform(act, len(sizes)),
			Init:        initializer.XavierFactory(seed),
		})
	default:
		return nil, fmt.Errorf("one of -model or -topology is required")
	}
}
