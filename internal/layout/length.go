package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit of a Length.
type Unit int

const (
	// Star lengths are proportional shares of the remaining space.
	Star Unit = iota
	Pixel
	Auto
)

// Length is a dock size: a pixel value, a star ratio or Auto.
// The zero value is not valid; use StarLength(1) for the default "*".
type Length struct {
	Value float64
	Unit  Unit
}

// StarLength returns a proportional length.
func StarLength(v float64) Length { return Length{Value: v, Unit: Star} }

// PixelLength returns a fixed length.
func PixelLength(v float64) Length { return Length{Value: v, Unit: Pixel} }

// AutoLength returns a size-to-content length.
func AutoLength() Length { return Length{Value: 1, Unit: Auto} }

// String formats the length the way it is persisted: "*", "2*", "150" or "Auto".
func (l Length) String() string {
	switch l.Unit {
	case Auto:
		return "Auto"
	case Pixel:
		return strconv.FormatFloat(l.Value, 'f', -1, 64)
	default:
		if l.Value == 1 {
			return "*"
		}
		return strconv.FormatFloat(l.Value, 'f', -1, 64) + "*"
	}
}

// ParseLength parses the output of Length.String.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, "auto"):
		return AutoLength(), nil
	case s == "*":
		return StarLength(1), nil
	case strings.HasSuffix(s, "*"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "*"), 64)
		if err != nil || v < 0 {
			return Length{}, fmt.Errorf("invalid star length %q", s)
		}
		return StarLength(v), nil
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return Length{}, fmt.Errorf("invalid length %q", s)
		}
		return PixelLength(v), nil
	}
}

// Sized is implemented by panels and panes that take part in dock sizing.
type Sized interface {
	Size() *Sizing
}

// Sizing holds the dock dimensions of a panel or pane.
type Sizing struct {
	DockWidth     Length
	DockHeight    Length
	DockMinWidth  float64
	DockMinHeight float64
}

// DefaultSizing returns the sizing a new panel or pane starts with.
func DefaultSizing() Sizing {
	return Sizing{
		DockWidth:     StarLength(1),
		DockHeight:    StarLength(1),
		DockMinWidth:  25,
		DockMinHeight: 25,
	}
}

// Size returns the sizing record.
func (s *Sizing) Size() *Sizing { return s }
