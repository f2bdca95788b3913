// Copyright 2025 The Fern Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package activation provides the pointwise activation functions usable in
// fern layers: Sigmoid, Tanh, ReLU, and Softplus.
//
// Every variant's derivative is expressed in terms of the already-activated
// output, which is the form backpropagation consumes. ByName resolves the
// canonical names used in serialized checkpoints.
package activation

import (
	"github.com/fern-ml/fern/internal/activation"
)

// Function is a pointwise activation: an elementwise transform plus its
// derivative (stated in terms of the activated output).
type Function = activation.Function

// Sigmoid is the logistic activation 1/(1+exp(-x)).
type Sigmoid = activation.Sigmoid

// Tanh is the hyperbolic tangent activation.
type Tanh = activation.Tanh

// ReLU is the rectified linear activation max(0, x).
type ReLU = activation.ReLU

// Softplus is the smooth ReLU ln(1+exp(x)).
type Softplus = activation.Softplus

// ByName resolves a canonical activation name to its variant; unknown names
// are errors.
func ByName(name string) (Function, error) {
	return activation.ByName(name)
}

// Names returns the canonical names of all known variants.
func Names() []string {
	return activation.Names()
}
