package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"gridbot/server/config"
	"gridbot/server/script"
	"gridbot/server/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The CLI runs one in-memory session without persistence.
	sessions := services.NewSessionService(cfg.SimOptions(), nil)
	session := sessions.CreateSession()

	state := session.Snapshot()
	fmt.Println("Robot Grid Simulator")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Robot initialized at (%d, %d) facing %s\n", state.X, state.Y, state.Facing)
	fmt.Println("Type 'help' for available commands, 'quit' to exit")
	fmt.Println()
	fmt.Print(renderGrid(session))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Enter command: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if line == "" {
			continue
		}

		actions, err := script.Parse(line)
		if err != nil {
			fmt.Printf("ERROR: %v\n\n", err)
			continue
		}

		if !runActions(session, actions) {
			break
		}
	}

	fmt.Println("Shutting down robot simulator...")
}

// runActions dispatches each parsed action against the session.
// Returns false once a quit action is reached.
func runActions(session *services.Session, actions []script.Action) bool {
	for _, action := range actions {
		moved := false
		switch action.Kind {
		case script.ActApply:
			msg, _, err := session.Apply(action.Command)
			if err != nil {
				fmt.Printf("ERROR: %v\n", err)
				continue
			}
			fmt.Println(msg)
			moved = action.Moves()
		case script.ActFace:
			msg, _ := session.TurnTo(action.Target)
			fmt.Println(msg)
			moved = true
		case script.ActReport:
			fmt.Println(session.Report())
		case script.ActGrid:
			fmt.Print(renderGrid(session))
		case script.ActHelp:
			fmt.Println(script.Help())
		case script.ActReset:
			msg, _ := session.Reset()
			fmt.Println(msg)
			moved = true
		case script.ActQuit:
			return false
		}
		if moved {
			fmt.Print(renderGrid(session))
		}
	}
	fmt.Println()
	return true
}

func renderGrid(session *services.Session) string {
	var b strings.Builder
	b.WriteString("\n" + strings.Repeat("=", 25) + "\n")
	b.WriteString("   CURRENT GRID STATE\n")
	b.WriteString(strings.Repeat("=", 25) + "\n")
	b.WriteString(session.Render())
	b.WriteString("\nLegend: ^ > v < = Robot facing direction\n")
	b.WriteString("        X = Obstacle, . = Empty space\n")
	b.WriteString(strings.Repeat("=", 25) + "\n")
	return b.String()
}
