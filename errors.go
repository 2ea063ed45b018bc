package pdfnodes

import "github.com/pkg/errors"

// ErrGeometry is returned when a rectangle is invalid or two rectangles
// cannot be combined (for example because they sit on different pages).
var ErrGeometry = errors.New("geometry error")

// ErrInputContract is returned when a caller hands the model a malformed
// element sequence, such as a node with no elements.
var ErrInputContract = errors.New("input contract violation")
