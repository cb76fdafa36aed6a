package sim

import "gridbot/server/models"

// Kind identifies one of the closed set of robot commands.
type Kind int

const (
	Forward Kind = iota
	Backward
	TurnLeft
	TurnRight
	DiagonalMove
	Recharge
)

var kindNames = [...]string{"forward", "backward", "left", "right", "diagonal", "recharge"}

func (k Kind) String() string {
	if k < Forward || k > Recharge {
		return "unknown"
	}
	return kindNames[k]
}

// Command is one discrete instruction for the robot. Quadrant is only
// meaningful for DiagonalMove.
type Command struct {
	Kind     Kind
	Quadrant models.Diagonal
}
