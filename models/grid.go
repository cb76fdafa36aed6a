package models

// Grid is the bounded square world the robot moves on. Bounds are fixed
// for the lifetime of a session; obstacles may be edited between moves.
type Grid struct {
	Size      int        `json:"size"`
	Obstacles []Position `json:"obstacles"`
}

// DefaultObstacles returns the stock obstacle layout for a fresh session.
func DefaultObstacles() []Position {
	return []Position{{X: 2, Y: 2}, {X: 3, Y: 4}, {X: 1, Y: 3}}
}

// NewGrid creates a size x size grid with the given obstacles. A nil
// obstacle slice means an empty grid, not the default layout.
func NewGrid(size int, obstacles []Position) *Grid {
	g := &Grid{Size: size}
	for _, o := range obstacles {
		if g.InBounds(o.X, o.Y) {
			g.Obstacles = append(g.Obstacles, o)
		}
	}
	return g
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// IsObstacle reports whether (x, y) holds an obstacle.
func (g *Grid) IsObstacle(x, y int) bool {
	for _, o := range g.Obstacles {
		if o.X == x && o.Y == y {
			return true
		}
	}
	return false
}

// IsFree reports whether (x, y) is a valid destination cell.
func (g *Grid) IsFree(x, y int) bool {
	return g.InBounds(x, y) && !g.IsObstacle(x, y)
}

// ToggleObstacle adds an obstacle at (x, y), or removes the one already
// there. Returns true if an obstacle was added.
func (g *Grid) ToggleObstacle(x, y int) bool {
	for i, o := range g.Obstacles {
		if o.X == x && o.Y == y {
			g.Obstacles = append(g.Obstacles[:i], g.Obstacles[i+1:]...)
			return false
		}
	}
	g.Obstacles = append(g.Obstacles, Position{X: x, Y: y})
	return true
}

// ClearObstacles removes every obstacle.
func (g *Grid) ClearObstacles() {
	g.Obstacles = nil
}

// ResetObstacles restores the stock layout.
func (g *Grid) ResetObstacles() {
	g.Obstacles = DefaultObstacles()
}
