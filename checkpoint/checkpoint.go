// Copyright 2025 The Fern Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint reads and writes .fern checkpoint files: JSON documents
// carrying a magic/version envelope and the network's ordered layer records
// (row-major weights, biases, activation name).
//
// A loaded network's Query output is float-identical to the saved one's.
// Files naming an unknown activation or carrying inconsistent shapes fail
// fast; no partial network is returned.
package checkpoint

import (
	"io"

	"github.com/fern-ml/fern/internal/checkpoint"
	"github.com/fern-ml/fern/internal/network"
)

// Format constants.
const (
	Magic         = checkpoint.Magic
	FormatVersion = checkpoint.FormatVersion
)

// File is the persisted form of a network.
type File = checkpoint.File

// LayerRecord is one layer's persisted parameters.
type LayerRecord = checkpoint.LayerRecord

// TrainingMeta optionally records how a checkpointed network was trained.
type TrainingMeta = checkpoint.TrainingMeta

// SaveOptions carries the optional envelope fields of a checkpoint.
type SaveOptions = checkpoint.SaveOptions

// Common errors.
var (
	ErrInvalidMagic       = checkpoint.ErrInvalidMagic
	ErrUnsupportedVersion = checkpoint.ErrUnsupportedVersion
	ErrNoLayers           = checkpoint.ErrNoLayers
	ErrUnknownActivation  = checkpoint.ErrUnknownActivation
	ErrShapeMismatch      = checkpoint.ErrShapeMismatch
)

// Save writes net to w as a .fern checkpoint.
func Save(w io.Writer, net *network.Network, opts SaveOptions) error {
	return checkpoint.Save(w, net, opts)
}

// Load reads a .fern checkpoint and reconstructs the network it describes.
func Load(r io.Reader) (*network.Network, error) {
	return checkpoint.Load(r)
}

// SaveFile writes net to a checkpoint file at path.
func SaveFile(path string, net *network.Network, opts SaveOptions) error {
	return checkpoint.SaveFile(path, net, opts)
}

// LoadFile reads a checkpoint file from path.
func LoadFile(path string) (*network.Network, error) {
	return checkpoint.LoadFile(path)
}
