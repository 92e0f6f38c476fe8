package phaser

import (
	"errors"
	"fmt"
)

var ErrEmptyGrid = errors.New("grid shape has no elements")

// ShapeError reports an input array whose length does not fit the session
// grid. It is always raised before any state is touched.
type ShapeError struct {
	Shape []int
	Got   int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("array of %d values does not fit grid %v (%d values)",
		e.Got, e.Shape, gridSize(e.Shape))
}
