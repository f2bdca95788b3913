// Copyright 2025 The Fern Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package network provides the fern feedforward network core: fully
// connected layers and the training orchestrator.
//
// # Overview
//
// This package contains:
//   - Layer: one fully connected layer (forward, backward, update)
//   - Network: the ordered layer sequence, Query and Train
//   - Topology/Build: declarative network construction
//   - TrainingExample, Progress, Observer: the training surface
//
// # Basic Usage
//
//	import (
//	    "github.com/fern-ml/fern/activation"
//	    "github.com/fern-ml/fern/network"
//	)
//
//	func main() {
//	    net, err := network.Build(network.Topology{
//	        Sizes:       []int{2, 2, 1},
//	        Activations: network.Uniform(activation.Sigmoid{}, 3),
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    meanCost, err := net.Train(examples, 10000, 0.5, 0.9, nil)
//	    output, err := net.Query(input)
//	}
//
// # Training
//
// Train runs online stochastic gradient descent with momentum: parameters
// update after every single example, in the order given, with no shuffling.
// An optional Observer receives a synchronous Progress snapshot per trained
// example. The training loop is strictly sequential; concurrent use of one
// network during training must be serialized by the caller.
package network
