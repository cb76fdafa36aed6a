package models

import "time"

// Position is a cell on the grid.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pose is a position plus facing, recorded once per accepted move.
type Pose struct {
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Facing Direction `json:"facing"`
}

// Robot is the mutable simulator state for one session.
type Robot struct {
	ID        string    `json:"id"`
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Facing    Direction `json:"facing"`
	Battery   int       `json:"battery"`
	History   []Pose    `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pos returns the robot's current cell.
func (r *Robot) Pos() Position {
	return Position{X: r.X, Y: r.Y}
}

// MoveCount is the number of accepted moves this session. The initial
// pose is recorded in the history, so it does not count.
func (r *Robot) MoveCount() int {
	if len(r.History) == 0 {
		return 0
	}
	return len(r.History) - 1
}
