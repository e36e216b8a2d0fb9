package main

import "math"

// SpatialGrid buckets unit ids by position for point queries such as
// picking the unit under a click. Cells outside the map clamp to the border.
type SpatialGrid struct {
	cellSize   float64
	origin     Vec2 // world position of cell (0,0)'s corner
	cols, rows int
	cells      [][]EntityID
}

// NewSpatialGrid covers the square [-half, half]² with cells of cellSize
func NewSpatialGrid(half, cellSize float64) *SpatialGrid {
	n := int(math.Ceil(2*half/cellSize)) + 1
	return &SpatialGrid{
		cellSize: cellSize,
		origin:   V2(-half, -half),
		cols:     n,
		rows:     n,
		cells:    make([][]EntityID, n*n),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) cellCoords(p Vec2) (int, int) {
	cx := int(math.Floor((p.X - g.origin.X) / g.cellSize))
	cy := int(math.Floor((p.Y - g.origin.Y) / g.cellSize))
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// Insert adds an id at the given position
func (g *SpatialGrid) Insert(p Vec2, id EntityID) {
	cx, cy := g.cellCoords(p)
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], id)
}

// QueryBuf appends the ids in every cell overlapping the box around p to buf
// and returns the extended slice. Callers still need an exact distance check.
func (g *SpatialGrid) QueryBuf(p Vec2, radius float64, buf []EntityID) []EntityID {
	minCX, minCY := g.cellCoords(V2(p.X-radius, p.Y-radius))
	maxCX, maxCY := g.cellCoords(V2(p.X+radius, p.Y+radius))
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}

// rebuildGrid re-buckets every unit at its current position
func (s *Simulation) rebuildGrid() {
	s.grid.Clear()
	for _, u := range s.units {
		s.grid.Insert(u.Pos, u.ID)
	}
}

// EnemyAt returns the enemy of team closest to p whose body contains p.
// Units are picked by their collision circle.
func (s *Simulation) EnemyAt(p Vec2, team Team) (*Unit, bool) {
	s.rebuildGrid()
	s.queryBuf = s.grid.QueryBuf(p, s.cfg.UnitRadius, s.queryBuf[:0])

	var best *Unit
	bestDist := math.MaxFloat64
	for _, id := range s.queryBuf {
		u := s.byID[id]
		if u == nil || u.Team == team {
			continue
		}
		d := u.Pos.Dist(p)
		if d > s.cfg.UnitRadius {
			continue
		}
		// Ties go to the older unit so picking is deterministic.
		if d < bestDist || (d == bestDist && u.ID < best.ID) {
			best = u
			bestDist = d
		}
	}
	return best, best != nil
}
