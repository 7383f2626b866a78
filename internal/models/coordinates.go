package models

import "fmt"

// Coordinates is a resolved sky position in decimal degrees.
type Coordinates struct {
	RA    float64 `json:"ra"`
	Dec   float64 `json:"decl"`
	Frame string  `json:"frame,omitempty"`
}

const DefaultFrame = "icrs"

func NewCoordinates(ra float64, dec float64) Coordinates {
	return Coordinates{
		RA:    ra,
		Dec:   dec,
		Frame: DefaultFrame,
	}
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%s): (ra, dec) in deg (%.6f, %.6f)", c.GetFrame(), c.RA, c.Dec)
}

func (c Coordinates) GetFrame() string {
	if len(c.Frame) == 0 {
		return DefaultFrame
	}
	return c.Frame
}

// IsZero reports whether the position carries no resolved value. The
// origin (0, 0) is not a valid resolver result for any named object.
func (c Coordinates) IsZero() bool {
	return c.RA == 0 && c.Dec == 0
}
