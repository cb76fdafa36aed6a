package sim

import "errors"

// Rejection taxonomy. Every rejected command leaves the robot state
// unchanged; none of these end the session.
var (
	ErrOutOfBounds    = errors.New("destination is outside grid boundaries")
	ErrObstacle       = errors.New("destination is blocked by an obstacle")
	ErrBatteryLow     = errors.New("insufficient battery to move")
	ErrUnknownCommand = errors.New("unknown command")
	ErrRobotCell      = errors.New("cannot place obstacle on robot position")
)
