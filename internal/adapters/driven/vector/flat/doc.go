// Package flat provides an exact nearest-neighbour index.
// It implements the driven.VectorIndex interface.
//
// Every search compares the query against every stored vector using squared
// Euclidean distance, so results are exact and reproducible. Vectors are
// stored row-major in a single float32 slice and addressed by position.
//
// The on-disk artifact is a small header followed by the raw vectors in
// little-endian float32:
//
//	magic      [8]byte  "PDFRAGFX"
//	version    uint32
//	dimensions uint32
//	count      uint64
//	genLen     uint16
//	generation [genLen]byte
//	vectors    [count*dimensions]float32
package flat
