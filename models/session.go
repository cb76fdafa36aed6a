package models

// Session is the persisted record of one simulator session: the robot,
// the grid size it runs on and the current obstacle layout.
type Session struct {
	ID        string     `json:"id"`
	GridSize  int        `json:"grid_size"`
	Robot     *Robot     `json:"robot"`
	Obstacles []Position `json:"obstacles"`
}
