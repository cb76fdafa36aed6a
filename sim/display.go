package sim

import (
	"fmt"
	"strings"
)

// Report builds the multi-line status report for the current session.
func (s *Simulator) Report() string {
	lines := []string{
		"Robot Status Report:",
		fmt.Sprintf("Position: (%d, %d)", s.robot.X, s.robot.Y),
		fmt.Sprintf("Facing: %s", s.robot.Facing),
		fmt.Sprintf("Grid Size: %dx%d", s.grid.Size, s.grid.Size),
	}
	if s.batteryOn {
		status := "OK"
		if s.robot.Battery <= batteryCritical {
			status = "CRITICAL"
		}
		lines = append(lines, fmt.Sprintf("Battery: %d%% (%s)", s.robot.Battery, status))
	}
	if len(s.grid.Obstacles) > 0 {
		cells := make([]string, len(s.grid.Obstacles))
		for i, o := range s.grid.Obstacles {
			cells[i] = fmt.Sprintf("(%d, %d)", o.X, o.Y)
		}
		lines = append(lines, "Obstacles at: "+strings.Join(cells, ", "))
	}
	lines = append(lines, fmt.Sprintf("Total moves: %d", s.robot.MoveCount()))
	return strings.Join(lines, "\n")
}

// RenderGrid draws the grid north to south with the robot's facing
// marker, obstacles as X and free cells as dots.
func (s *Simulator) RenderGrid() string {
	var b strings.Builder
	for y := 0; y < s.grid.Size; y++ {
		fmt.Fprintf(&b, "%d | ", y)
		for x := 0; x < s.grid.Size; x++ {
			switch {
			case x == s.robot.X && y == s.robot.Y:
				b.WriteString(s.robot.Facing.Marker())
			case s.grid.IsObstacle(x, y):
				b.WriteString("X")
			default:
				b.WriteString(".")
			}
			if x < s.grid.Size-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("  +" + strings.Repeat("-", s.grid.Size*2) + "\n")
	b.WriteString("  | ")
	for x := 0; x < s.grid.Size; x++ {
		if x > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d", x)
	}
	b.WriteString("\n")
	return b.String()
}
