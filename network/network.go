// Copyright 2025 The Fern Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package network

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fern-ml/fern/activation"
	"github.com/fern-ml/fern/internal/initializer"
	"github.com/fern-ml/fern/internal/network"
)

// Network is an ordered sequence of fully connected layers.
type Network = network.Network

// Layer is one fully connected layer of a network.
type Layer = network.Layer

// LayerGrads holds one layer's gradients from a backward pass.
type LayerGrads = network.LayerGrads

// Gradients holds a full backward pass's per-layer gradients.
type Gradients = network.Gradients

// TrainingExample pairs an input vector with its expected output.
type TrainingExample = network.TrainingExample

// Progress is a per-example training snapshot.
type Progress = network.Progress

// Observer receives Progress snapshots during training.
type Observer = network.Observer

// Topology describes a network layout for Build.
type Topology = network.Topology

// New assembles a network from an ordered, width-compatible layer sequence.
func New(layers ...*Layer) (*Network, error) {
	return network.New(layers...)
}

// NewLayer constructs a layer, filling parameters from init.
func NewLayer(inputWidth, outputWidth int, act activation.Function, init initializer.Initializer) (*Layer, error) {
	return network.NewLayer(inputWidth, outputWidth, act, init)
}

// NewLayerFromParams constructs a layer around explicit weights and biases.
func NewLayerFromParams(weights *mat.Dense, biases *mat.VecDense, act activation.Function) (*Layer, error) {
	return network.NewLayerFromParams(weights, biases, act)
}

// Build constructs a network from a topology description.
func Build(t Topology) (*Network, error) {
	return network.Build(t)
}

// Uniform returns an activation slice assigning act to every layer of a
// network with the given number of boundary sizes.
func Uniform(act activation.Function, boundaries int) []activation.Function {
	return network.Uniform(act, boundaries)
}
