package model

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a node id absent from the graph store. Expansion
// skips the node and continues; a retrieval with no resolvable seeds returns
// an empty result instead of failing.
var ErrNotFound = errors.New("node not found")

// TransientError wraps a network or store hiccup. Fetches failing with a
// transient error are retried once and then skipped, degrading to a partial
// expansion.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure during %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether an error chain contains a TransientError
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// InvalidEmbeddingError indicates a zero-norm or wrong-dimension vector.
// Fatal for the question: no meaningful retrieval is possible, so it
// propagates to the caller.
type InvalidEmbeddingError struct {
	Reason string
}

func (e *InvalidEmbeddingError) Error() string {
	return fmt.Sprintf("invalid embedding: %s", e.Reason)
}
