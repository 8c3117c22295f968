package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	ID     uint32  // creature ID, for deterministic ordering
	Pos    r2.Vec  // position at insertion time
	DistSq float64 // squared distance from the query origin
}

type gridEntry struct {
	e   ecs.Entity
	id  uint32
	pos r2.Vec
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid.
// The level is bounded, so positions outside it fall into the edge cells.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]gridEntry
	count    int
}

// NewSpatialGrid creates a spatial grid covering the given world size.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]gridEntry, cols*rows)
	for i := range cells {
		cells[i] = make([]gridEntry, 0, 4)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Len returns the number of inserted entities.
func (g *SpatialGrid) Len() int {
	return g.count
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, id uint32, pos r2.Vec) {
	col, row := g.cellOf(pos)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], gridEntry{e: e, id: id, pos: pos})
	g.count++
}

// QueryRadiusInto finds entities within radius of pos and appends them to dst.
// Reuse dst across calls to avoid allocations. Results are in cell order;
// callers needing a stable order sort by ID.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, pos r2.Vec, radius float64, exclude ecs.Entity) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cellOf(pos)
	radiusSq := radius * radius

	for col := max(0, centerCol-cellRadius); col <= min(g.cols-1, centerCol+cellRadius); col++ {
		for row := max(0, centerRow-cellRadius); row <= min(g.rows-1, centerRow+cellRadius); row++ {
			for _, entry := range g.cells[row*g.cols+col] {
				if entry.e == exclude {
					continue
				}
				d := r2.Sub(entry.pos, pos)
				distSq := d.X*d.X + d.Y*d.Y
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: entry.e, ID: entry.id, Pos: entry.pos, DistSq: distSq})
				}
			}
		}
	}
	return dst
}

// cellOf returns the clamped cell coordinates for a world position.
func (g *SpatialGrid) cellOf(pos r2.Vec) (col, row int) {
	col = int(pos.X / g.cellSize)
	row = int(pos.Y / g.cellSize)
	if pos.X < 0 {
		col = 0
	}
	if pos.Y < 0 {
		row = 0
	}
	col = min(col, g.cols-1)
	row = min(row, g.rows-1)
	return col, row
}
