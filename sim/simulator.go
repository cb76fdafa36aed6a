package sim

import (
	"fmt"
	"time"

	"gridbot/server/models"

	"github.com/google/uuid"
)

const (
	fullBattery     = 100
	batteryDrain    = 5
	batteryCritical = 20

	// DefaultGridSize is used when no grid size is configured.
	DefaultGridSize = 5
)

// Simulator owns the authoritative robot state for one session and is
// its sole mutator. It is not safe for concurrent use; callers serialize
// access (the session service holds one mutex per simulator).
type Simulator struct {
	grid      *models.Grid
	robot     *models.Robot
	start     models.Pose
	batteryOn bool
}

// Options configures a new simulator. Zero values fall back to the
// stock 5x5 setup: start at (0,0) facing north, battery and default
// obstacles enabled.
type Options struct {
	GridSize       int
	Start          models.Pose
	DisableBattery bool
	NoObstacles    bool
	Obstacles      []models.Position
}

// New creates a simulator with a fresh robot at the configured start pose.
func New(opts Options) *Simulator {
	size := opts.GridSize
	if size <= 0 {
		size = DefaultGridSize
	}

	var obstacles []models.Position
	if !opts.NoObstacles {
		obstacles = opts.Obstacles
		if obstacles == nil {
			obstacles = models.DefaultObstacles()
		}
	}

	s := &Simulator{
		grid:      models.NewGrid(size, obstacles),
		start:     opts.Start,
		batteryOn: !opts.DisableBattery,
	}
	s.robot = s.newRobot()
	return s
}

func (s *Simulator) newRobot() *models.Robot {
	now := time.Now()
	r := &models.Robot{
		ID:        uuid.NewString(),
		X:         s.start.X,
		Y:         s.start.Y,
		Facing:    s.start.Facing,
		Battery:   fullBattery,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.History = append(r.History, models.Pose{X: r.X, Y: r.Y, Facing: r.Facing})
	return r
}

// Robot exposes the current robot for persistence and rendering.
func (s *Simulator) Robot() *models.Robot {
	return s.robot
}

// Grid exposes the session grid.
func (s *Simulator) Grid() *models.Grid {
	return s.grid
}

// Restore replaces the robot state with one loaded from storage.
func (s *Simulator) Restore(r *models.Robot, obstacles []models.Position) {
	s.robot = r
	s.grid.Obstacles = nil
	for _, o := range obstacles {
		if s.grid.InBounds(o.X, o.Y) {
			s.grid.Obstacles = append(s.grid.Obstacles, o)
		}
	}
}

// Apply executes exactly one command. On success it returns a human
// readable result line; on rejection the robot state is unchanged and
// the error is one of the sim sentinel errors.
func (s *Simulator) Apply(cmd Command) (string, error) {
	switch cmd.Kind {
	case Forward:
		dx, dy := s.robot.Facing.Delta()
		if err := s.step(dx, dy); err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved forward to (%d, %d)", s.robot.X, s.robot.Y), nil
	case Backward:
		dx, dy := s.robot.Facing.Delta()
		if err := s.step(-dx, -dy); err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved backward to (%d, %d)", s.robot.X, s.robot.Y), nil
	case TurnLeft:
		s.robot.Facing = s.robot.Facing.Left()
		s.touch()
		return fmt.Sprintf("Turned left, now facing %s", s.robot.Facing), nil
	case TurnRight:
		s.robot.Facing = s.robot.Facing.Right()
		s.touch()
		return fmt.Sprintf("Turned right, now facing %s", s.robot.Facing), nil
	case DiagonalMove:
		dx, dy := cmd.Quadrant.Delta()
		if err := s.step(dx, dy); err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved diagonally %s to (%d, %d)", cmd.Quadrant, s.robot.X, s.robot.Y), nil
	case Recharge:
		if !s.batteryOn {
			return "Battery system is disabled", nil
		}
		s.robot.Battery = fullBattery
		s.touch()
		return "Battery recharged to 100%", nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownCommand, cmd.Kind)
}

// step validates and commits a single unit move.
func (s *Simulator) step(dx, dy int) error {
	if s.batteryOn && s.robot.Battery < batteryDrain {
		return ErrBatteryLow
	}
	nx, ny := s.robot.X+dx, s.robot.Y+dy
	if !s.grid.InBounds(nx, ny) {
		return fmt.Errorf("cannot move to (%d, %d): %w", nx, ny, ErrOutOfBounds)
	}
	if s.grid.IsObstacle(nx, ny) {
		return fmt.Errorf("cannot move to (%d, %d): %w", nx, ny, ErrObstacle)
	}

	s.robot.X, s.robot.Y = nx, ny
	if s.batteryOn {
		s.robot.Battery -= batteryDrain
		if s.robot.Battery < 0 {
			s.robot.Battery = 0
		}
	}
	s.robot.History = append(s.robot.History, models.Pose{X: nx, Y: ny, Facing: s.robot.Facing})
	s.touch()
	return nil
}

// TurnTo rotates the robot clockwise until it faces target.
func (s *Simulator) TurnTo(target models.Direction) string {
	for turns := 0; s.robot.Facing != target && turns < 4; turns++ {
		s.robot.Facing = s.robot.Facing.Right()
	}
	s.touch()
	return fmt.Sprintf("Turned to face %s", target)
}

// Reset restores the start pose, full battery, the stock obstacle layout
// and an empty history. The robot keeps its session identity.
func (s *Simulator) Reset() string {
	id := s.robot.ID
	created := s.robot.CreatedAt
	s.robot = s.newRobot()
	s.robot.ID = id
	s.robot.CreatedAt = created
	s.grid.ResetObstacles()
	return "Robot reset to initial position"
}

// ToggleObstacle flips the obstacle at (x, y). The robot's own cell and
// cells off the grid are rejected.
func (s *Simulator) ToggleObstacle(x, y int) (string, error) {
	if !s.grid.InBounds(x, y) {
		return "", fmt.Errorf("cell (%d, %d): %w", x, y, ErrOutOfBounds)
	}
	if x == s.robot.X && y == s.robot.Y {
		return "", ErrRobotCell
	}
	if s.grid.ToggleObstacle(x, y) {
		return fmt.Sprintf("Added obstacle at (%d, %d)", x, y), nil
	}
	return fmt.Sprintf("Removed obstacle at (%d, %d)", x, y), nil
}

// ClearObstacles removes every obstacle from the grid.
func (s *Simulator) ClearObstacles() string {
	s.grid.ClearObstacles()
	return "All obstacles cleared"
}

// ResetObstacles restores the stock obstacle layout.
func (s *Simulator) ResetObstacles() string {
	s.grid.ResetObstacles()
	return "Obstacles reset to default"
}

func (s *Simulator) touch() {
	s.robot.UpdatedAt = time.Now()
}

// State is the serializable snapshot returned to every caller after a
// command application.
type State struct {
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Facing    string            `json:"facing"`
	Battery   int               `json:"battery"`
	MoveCount int               `json:"moveCount"`
	Obstacles []models.Position `json:"obstacles"`
	GridSize  int               `json:"gridSize"`
}

// Snapshot captures the current robot and grid state.
func (s *Simulator) Snapshot() State {
	battery := fullBattery
	if s.batteryOn {
		battery = s.robot.Battery
	}
	obstacles := make([]models.Position, len(s.grid.Obstacles))
	copy(obstacles, s.grid.Obstacles)
	return State{
		X:         s.robot.X,
		Y:         s.robot.Y,
		Facing:    s.robot.Facing.String(),
		Battery:   battery,
		MoveCount: s.robot.MoveCount(),
		Obstacles: obstacles,
		GridSize:  s.grid.Size,
	}
}
