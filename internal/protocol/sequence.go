package protocol

import (
	"errors"
	"fmt"
	"math"
)

// NextSequence allocates the id of the next outbound query. It returns the
// incremented counter, so the first id is 1 and no id is ever handed out twice.
func (h *Handler) NextSequence() (uint64, error) {
	last, err := h.state.SequenceCounter()
	if err != nil {
		return 0, fmt.Errorf("load sequence counter: %w", err)
	}
	if last == math.MaxUint64 {
		return 0, errors.New("sequence counter exhausted")
	}
	next := last + 1
	if err := h.state.SetSequenceCounter(next); err != nil {
		return 0, fmt.Errorf("save sequence counter: %w", err)
	}
	return next, nil
}
