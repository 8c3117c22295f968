package systems

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestSpatialGridMatchesBruteForce(t *testing.T) {
	w := ecs.NewWorld()
	type marker struct{ N int }
	mapper := ecs.NewMap1[marker](w)

	rng := rand.New(rand.NewSource(1))
	grid := NewSpatialGrid(400, 300, 40)

	type point struct {
		e   ecs.Entity
		id  uint32
		pos r2.Vec
	}
	var points []point
	for i := 0; i < 200; i++ {
		// Some points fall outside the level and land in edge cells
		p := point{
			e:   mapper.NewEntity(&marker{}),
			id:  uint32(i + 1),
			pos: r2.Vec{X: rng.Float64()*440 - 20, Y: rng.Float64()*340 - 20},
		}
		points = append(points, p)
		grid.Insert(p.e, p.id, p.pos)
	}
	if grid.Len() != len(points) {
		t.Fatalf("Len = %d, want %d", grid.Len(), len(points))
	}

	tests := []struct {
		name   string
		origin r2.Vec
		radius float64
	}{
		{"center small", r2.Vec{X: 200, Y: 150}, 25},
		{"center wide", r2.Vec{X: 200, Y: 150}, 130},
		{"corner", r2.Vec{X: 0, Y: 0}, 60},
		{"outside", r2.Vec{X: 410, Y: -10}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var want []uint32
			for _, p := range points {
				d := r2.Sub(p.pos, tt.origin)
				if d.X*d.X+d.Y*d.Y <= tt.radius*tt.radius {
					want = append(want, p.id)
				}
			}

			var got []uint32
			for _, n := range grid.QueryRadiusInto(nil, tt.origin, tt.radius, ecs.Entity{}) {
				got = append(got, n.ID)
			}
			slices.Sort(got)

			if !slices.Equal(got, want) {
				t.Errorf("got %d neighbors %v, want %d %v", len(got), got, len(want), want)
			}
		})
	}

	grid.Clear()
	if n := len(grid.QueryRadiusInto(nil, r2.Vec{X: 200, Y: 150}, 500, ecs.Entity{})); n != 0 {
		t.Errorf("after Clear: %d neighbors", n)
	}
}
