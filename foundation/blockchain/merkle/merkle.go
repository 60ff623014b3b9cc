// Package merkle provides the merkle root computation used as the
// transaction commitment inside a block header.
package merkle

import (
	"crypto/sha256"
)

// Hashable is the behavior a value must implement to be placed
// into the tree.
type Hashable interface {
	Hash() ([]byte, error)
}

// Root computes the merkle root over the specified values. The leaves are
// the individual value hashes. When a level holds an odd number of nodes,
// the last node is duplicated. An empty set of values produces a zero root.
func Root[T Hashable](values []T) ([32]byte, error) {
	if len(values) == 0 {
		return [32]byte{}, nil
	}

	level := make([][32]byte, 0, len(values))
	for _, v := range values {
		hash, err := v.Hash()
		if err != nil {
			return [32]byte{}, err
		}

		var node [32]byte
		copy(node[:], hash)
		level = append(level, node)
	}

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}

		next := make([][32]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			data := make([]byte, 0, 64)
			data = append(data, level[i][:]...)
			data = append(data, level[i+1][:]...)
			next = append(next, sha256.Sum256(data))
		}

		level = next
	}

	return level[0], nil
}
