// Copyright 2025 The Fern Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package initializer provides weight and bias initialization strategies for
// fern layers: Xavier (uniform), He (normal), and constant fills.
//
// Fan-dependent strategies are created through a Factory so the layout
// builder can instantiate one per layer; fixed seeds make whole networks
// reproducible.
package initializer

import (
	"github.com/fern-ml/fern/internal/initializer"
)

// Initializer supplies initial values for a single layer's parameters.
type Initializer = initializer.Initializer

// Factory builds an Initializer for a layer given its fan-in and fan-out.
type Factory = initializer.Factory

// Xavier draws weights uniformly from ±sqrt(6/(fanIn+fanOut)).
type Xavier = initializer.Xavier

// He draws weights from a normal distribution scaled by sqrt(2/fanIn).
type He = initializer.He

// Constant fills every weight with W and every bias with B.
type Constant = initializer.Constant

// Zero initializes all parameters to zero.
var Zero = initializer.Zero

// NewXavier creates a seeded Xavier initializer for the given fan sizes.
func NewXavier(fanIn, fanOut int, seed int64) *Xavier {
	return initializer.NewXavier(fanIn, fanOut, seed)
}

// NewHe creates a seeded He initializer for the given fan-in.
func NewHe(fanIn int, seed int64) *He {
	return initializer.NewHe(fanIn, seed)
}

// XavierFactory returns a Factory producing per-layer Xavier initializers.
func XavierFactory(seed int64) Factory {
	return initializer.XavierFactory(seed)
}

// HeFactory returns a Factory producing per-layer He initializers.
func HeFactory(seed int64) Factory {
	return initializer.HeFactory(seed)
}

// ConstantFactory returns a Factory producing the same Constant initializer
// for every layer.
func ConstantFactory(w, b float64) Factory {
	return initializer.ConstantFactory(w, b)
}
