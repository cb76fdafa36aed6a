package models

import "fmt"

// Direction is the robot's facing on the compass.
// The grid uses screen coordinates: row 0 is the north edge, so
// north decrements Y and south increments it.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"NORTH", "EAST", "SOUTH", "WEST"}

func (d Direction) String() string {
	if d < North || d > West {
		return "UNKNOWN"
	}
	return directionNames[d]
}

// Left returns the direction after a 90° counter-clockwise turn.
func (d Direction) Left() Direction {
	return (d + 3) % 4
}

// Right returns the direction after a 90° clockwise turn.
func (d Direction) Right() Direction {
	return (d + 1) % 4
}

// Delta returns the unit step for one forward move in this direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

// Marker returns the single-character grid symbol for this facing.
func (d Direction) Marker() string {
	switch d {
	case North:
		return "^"
	case East:
		return ">"
	case South:
		return "v"
	case West:
		return "<"
	}
	return "?"
}

// ParseDirection maps a direction name (any case handled by the caller)
// to its Direction value.
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "north", "NORTH":
		return North, nil
	case "east", "EAST":
		return East, nil
	case "south", "SOUTH":
		return South, nil
	case "west", "WEST":
		return West, nil
	}
	return North, fmt.Errorf("invalid direction: %s", name)
}

// Diagonal is a two-axis quadrant move direction.
type Diagonal int

const (
	NorthEast Diagonal = iota
	SouthEast
	SouthWest
	NorthWest
)

var diagonalNames = [...]string{"NE", "SE", "SW", "NW"}

func (d Diagonal) String() string {
	if d < NorthEast || d > NorthWest {
		return "??"
	}
	return diagonalNames[d]
}

// Delta returns the unit step for one diagonal move.
func (d Diagonal) Delta() (dx, dy int) {
	switch d {
	case NorthEast:
		return 1, -1
	case SouthEast:
		return 1, 1
	case SouthWest:
		return -1, 1
	case NorthWest:
		return -1, -1
	}
	return 0, 0
}

// ParseDiagonal maps a quadrant name (ne/se/sw/nw) to its Diagonal value.
func ParseDiagonal(name string) (Diagonal, error) {
	switch name {
	case "ne", "NE":
		return NorthEast, nil
	case "se", "SE":
		return SouthEast, nil
	case "sw", "SW":
		return SouthWest, nil
	case "nw", "NW":
		return NorthWest, nil
	}
	return NorthEast, fmt.Errorf("invalid diagonal direction: %s (use: ne, se, sw, nw)", name)
}
