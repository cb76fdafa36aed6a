// Package script parses console input lines into robot actions. A line
// holds one command or a semicolon-separated sequence, e.g.
//
//	forward; left; diagonal ne; report
package script

import (
	"fmt"

	"github.com/alecthomas/participle/v2"

	"gridbot/server/models"
	"gridbot/server/sim"
)

type line struct {
	Commands []*command `parser:"@@ ( ';' @@ )*"`
}

type command struct {
	Step     *string `parser:"@('forward'|'f'|'backward'|'back'|'b')"`
	Turn     *string `parser:"| @('left'|'l'|'right'|'r')"`
	Diagonal *string `parser:"| 'diagonal' @('ne'|'se'|'sw'|'nw')"`
	Face     *string `parser:"| 'face' @('north'|'east'|'south'|'west')"`
	Word     *string `parser:"| @('report'|'grid'|'recharge'|'reset'|'help'|'quit')"`
}

var parser = participle.MustBuild[line]()

// ActionKind classifies a parsed console action.
type ActionKind int

const (
	// ActApply runs one state-machine command.
	ActApply ActionKind = iota
	// ActFace turns the robot to an absolute direction.
	ActFace
	ActReport
	ActGrid
	ActHelp
	ActReset
	ActQuit
)

// Action is one dispatchable unit of console input.
type Action struct {
	Kind    ActionKind
	Command sim.Command
	Target  models.Direction
}

// Moves reports whether the action changes the robot's pose on success,
// which is when the CLI redraws the grid.
func (a Action) Moves() bool {
	return a.Kind == ActApply && a.Command.Kind != sim.Recharge || a.Kind == ActFace
}

// Parse turns one input line into its action sequence.
func Parse(input string) ([]Action, error) {
	l, err := parser.ParseString("input", input)
	if err != nil {
		return nil, fmt.Errorf("unrecognized input %q (type 'help' for commands)", input)
	}

	actions := make([]Action, 0, len(l.Commands))
	for _, c := range l.Commands {
		a, err := c.action()
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func (c *command) action() (Action, error) {
	switch {
	case c.Step != nil:
		switch *c.Step {
		case "forward", "f":
			return Action{Kind: ActApply, Command: sim.Command{Kind: sim.Forward}}, nil
		default:
			return Action{Kind: ActApply, Command: sim.Command{Kind: sim.Backward}}, nil
		}
	case c.Turn != nil:
		if *c.Turn == "left" || *c.Turn == "l" {
			return Action{Kind: ActApply, Command: sim.Command{Kind: sim.TurnLeft}}, nil
		}
		return Action{Kind: ActApply, Command: sim.Command{Kind: sim.TurnRight}}, nil
	case c.Diagonal != nil:
		q, err := models.ParseDiagonal(*c.Diagonal)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActApply, Command: sim.Command{Kind: sim.DiagonalMove, Quadrant: q}}, nil
	case c.Face != nil:
		d, err := models.ParseDirection(*c.Face)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: ActFace, Target: d}, nil
	case c.Word != nil:
		switch *c.Word {
		case "report":
			return Action{Kind: ActReport}, nil
		case "grid":
			return Action{Kind: ActGrid}, nil
		case "recharge":
			return Action{Kind: ActApply, Command: sim.Command{Kind: sim.Recharge}}, nil
		case "reset":
			return Action{Kind: ActReset}, nil
		case "help":
			return Action{Kind: ActHelp}, nil
		case "quit":
			return Action{Kind: ActQuit}, nil
		}
	}
	return Action{}, fmt.Errorf("unrecognized command")
}

// Help lists the console command language.
func Help() string {
	return `Available Commands:
  forward (f)     - Move forward one step
  backward (b)    - Move backward one step
  left (l)        - Turn left
  right (r)       - Turn right
  face <dir>      - Turn to face north/east/south/west
  diagonal <dir>  - Move diagonally (ne/se/sw/nw)
  report          - Show robot status
  grid            - Display current grid
  recharge        - Recharge battery to 100%
  reset           - Reset robot to initial position
  help            - Show this help
  quit            - Exit simulator
Commands may be chained with semicolons: forward; left; forward`
}
