package systems

import (
	"math"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/crawl/components"
	"github.com/pthm-cable/crawl/config"
)

// scanEpsilon absorbs float drift in the scan accumulator so a 0.5s interval
// fires on tick 30 at 60Hz rather than tick 31.
const scanEpsilon = 1e-9

// rowHeightFactor is the vertical pyramid row pitch relative to slot spacing.
const rowHeightFactor = 0.75

// Group is a pyramid of creatures. Members are in slot order: bottom row
// first, left to right.
type Group struct {
	ID             uint32
	Members        []ecs.Entity
	Anchor         r2.Vec // bottom-center of the pyramid
	Centroid       r2.Vec // mean member position, refreshed every tick
	Scale          float64
	FormationTimer float64 // seconds since the last member joined
	Age            float64
}

// Size returns the number of members.
func (g *Group) Size() int {
	return len(g.Members)
}

// GroupingSystem detects clusters of idle crawlers and turns them into pyramids.
// It is the only writer of Grouped creatures' position and velocity.
type GroupingSystem struct {
	world  *ecs.World
	filter ecs.Filter4[components.Position, components.Velocity, components.Body, components.Behavior]
	mapper *ecs.Map4[components.Position, components.Velocity, components.Body, components.Behavior]
	cfg    *config.Config
	rng    Rand

	grid      *SpatialGrid
	groups    []*Group
	nextID    uint32
	scanAccum float64

	// Reused scratch buffers
	eligible  []Neighbor
	neighbors []Neighbor
	visited   map[ecs.Entity]bool
}

// NewGroupingSystem creates a new grouping system covering the configured level.
func NewGroupingSystem(w *ecs.World, cfg *config.Config, rng Rand) *GroupingSystem {
	cellSize := math.Max(cfg.Group.JoinRadius, 1)
	return &GroupingSystem{
		world:   w,
		filter:  *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Behavior](w),
		mapper:  ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Behavior](w),
		cfg:     cfg,
		rng:     rng,
		grid:    NewSpatialGrid(cfg.World.Width, cfg.World.Height, cellSize),
		nextID:  1,
		visited: make(map[ecs.Entity]bool),
	}
}

// SetConfig swaps the configuration, used on config reload.
func (s *GroupingSystem) SetConfig(cfg *config.Config) {
	s.cfg = cfg
}

// Groups returns the active groups, oldest first. Callers must not modify them.
func (s *GroupingSystem) Groups() []*Group {
	return s.groups
}

// Group returns the active group with the given ID.
func (s *GroupingSystem) Group(id uint32) (*Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// Eligible reports whether a creature may be claimed by a group.
func Eligible(body *components.Body, beh *components.Behavior) bool {
	return beh.State == components.Crawling &&
		!body.Exempt &&
		body.CanGroup &&
		beh.GroupID == 0 &&
		!beh.Scattering() &&
		body.Surface == components.Floor
}

// Update prunes dead members, runs the periodic scan and moves every group.
func (s *GroupingSystem) Update(dt float64, events *EventBuffer) {
	s.prune(events)
	s.rebuildGrid()

	s.scanAccum += dt
	if s.scanAccum+scanEpsilon >= s.cfg.Group.ScanInterval {
		s.scanAccum -= s.cfg.Group.ScanInterval
		s.scan(events)
	}

	for _, g := range s.groups {
		g.FormationTimer += dt
		g.Age += dt
		s.accrete(g, events)
		s.settle(g, dt)
	}
}

// Disband releases every member of a group in the same tick and removes it.
// Members are thrown outward from the centroid. Returns false for unknown IDs.
func (s *GroupingSystem) Disband(id uint32, events *EventBuffer) bool {
	idx := slices.IndexFunc(s.groups, func(g *Group) bool { return g.ID == id })
	if idx < 0 {
		return false
	}
	g := s.groups[idx]
	s.dropDead(g)
	s.refreshCentroid(g)

	gc := &s.cfg.Group
	bc := &s.cfg.Behavior
	for _, e := range g.Members {
		pos, vel, body, beh := s.mapper.Get(e)
		if beh.GroupID != g.ID {
			continue
		}

		offset := body.Surface.Component(r2.Sub(pos.Vec(), g.Centroid))
		dir := sign(offset)
		if offset == 0 && s.rng.Float64() < 0.5 {
			dir = -1
		}

		transition(beh, components.Crawling)
		beh.GroupID = 0
		beh.Direction = dir
		beh.ScatterDir = dir
		beh.ScatterTimer = gc.ScatterDuration
		beh.CrawlDuration = uniform(s.rng, bc.CrawlDuration.Min, bc.CrawlDuration.Max)
		setAxisVelocity(vel, body, dir*gc.ScatterSpeed*body.Scale)

		events.Emit(NewGroupLeftEvent(body.ID, g.ID, pos.Vec()))
	}

	events.Emit(NewGroupDisbandedEvent(g.ID, g.Centroid, len(g.Members)))
	s.groups = slices.Delete(s.groups, idx, idx+1)
	return true
}

// prune drops despawned members; groups left with fewer than two disband.
func (s *GroupingSystem) prune(events *EventBuffer) {
	var undersized []uint32
	for _, g := range s.groups {
		s.dropDead(g)
		if len(g.Members) < 2 {
			undersized = append(undersized, g.ID)
		}
	}
	for _, id := range undersized {
		s.Disband(id, events)
	}
}

// dropDead removes members despawned since the last tick.
func (s *GroupingSystem) dropDead(g *Group) {
	g.Members = slices.DeleteFunc(g.Members, func(e ecs.Entity) bool {
		return !s.world.Alive(e)
	})
}

// rebuildGrid inserts every eligible creature.
func (s *GroupingSystem) rebuildGrid() {
	s.grid.Clear()
	s.eligible = s.eligible[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, _, body, beh := query.Get()
		if !Eligible(body, beh) {
			continue
		}
		e := query.Entity()
		s.grid.Insert(e, body.ID, pos.Vec())
		s.eligible = append(s.eligible, Neighbor{E: e, ID: body.ID, Pos: pos.Vec()})
	}
	slices.SortFunc(s.eligible, byID)
}

// scan flood-fills connected clusters of eligible creatures in ascending ID
// order and forms a group from every cluster of at least min_size.
func (s *GroupingSystem) scan(events *EventBuffer) {
	gc := &s.cfg.Group
	clear(s.visited)

	for _, seed := range s.eligible {
		if s.visited[seed.E] {
			continue
		}

		cluster := []Neighbor{seed}
		s.visited[seed.E] = true
		for i := 0; i < len(cluster); i++ {
			s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], cluster[i].Pos, gc.JoinRadius, cluster[i].E)
			slices.SortFunc(s.neighbors, byID)
			for _, n := range s.neighbors {
				if !s.visited[n.E] {
					s.visited[n.E] = true
					cluster = append(cluster, n)
				}
			}
		}

		if len(cluster) < gc.MinSize {
			continue
		}
		slices.SortFunc(cluster, byID)
		if len(cluster) > gc.MaxSize {
			cluster = cluster[:gc.MaxSize]
		}
		s.form(cluster, events)
	}
}

// form creates a group from an ID-sorted cluster.
func (s *GroupingSystem) form(cluster []Neighbor, events *EventBuffer) {
	g := &Group{ID: s.nextID}

	var sum r2.Vec
	var scale float64
	for _, n := range cluster {
		_, _, body, _ := s.mapper.Get(n.E)
		sum = r2.Add(sum, n.Pos)
		scale += body.Scale
	}
	count := float64(len(cluster))
	g.Centroid = r2.Scale(1/count, sum)
	g.Anchor = g.Centroid
	g.Scale = scale / count

	joined := 0
	for _, n := range cluster {
		if s.claim(g, n.E, events) {
			joined++
		}
	}
	if joined == 0 {
		return
	}
	s.nextID++
	s.groups = append(s.groups, g)
	events.Emit(NewGroupFormedEvent(g.ID, g.Centroid, joined))
}

// accrete pulls eligible creatures near the centroid into the group.
func (s *GroupingSystem) accrete(g *Group, events *EventBuffer) {
	gc := &s.cfg.Group
	s.refreshCentroid(g)
	if len(g.Members) >= gc.MaxSize {
		return
	}

	s.neighbors = s.grid.QueryRadiusInto(s.neighbors[:0], g.Centroid, gc.JoinRadius, ecs.Entity{})
	slices.SortFunc(s.neighbors, byID)
	for _, n := range s.neighbors {
		if len(g.Members) >= gc.MaxSize {
			break
		}
		if s.claim(g, n.E, events) {
			g.FormationTimer = 0
		}
	}
}

// claim moves one creature into g. A creature already claimed by any group,
// or no longer eligible, is refused.
func (s *GroupingSystem) claim(g *Group, e ecs.Entity, events *EventBuffer) bool {
	if !s.world.Alive(e) {
		return false
	}
	pos, vel, body, beh := s.mapper.Get(e)
	if !Eligible(body, beh) {
		return false
	}

	transition(beh, components.Grouped)
	beh.GroupID = g.ID
	vel.Zero()
	g.Members = append(g.Members, e)

	events.Emit(NewGroupJoinedEvent(body.ID, g.ID, pos.Vec()))
	return true
}

// settle eases every member toward its pyramid slot.
func (s *GroupingSystem) settle(g *Group, dt float64) {
	f := smoothFactor(s.cfg.Group.SettleRate, dt)
	for i, e := range g.Members {
		pos, vel, body, _ := s.mapper.Get(e)
		slot := PyramidSlot(g.Anchor, i, len(g.Members), s.cfg.Group.SlotSpacing*g.Scale)
		slot.X = body.Bounds.Clamp(slot.X)
		pos.Set(lerp(pos.Vec(), slot, f))
		vel.Zero()
	}
	s.refreshCentroid(g)
}

func (s *GroupingSystem) refreshCentroid(g *Group) {
	if len(g.Members) == 0 {
		return
	}
	var sum r2.Vec
	for _, e := range g.Members {
		pos, _, _, _ := s.mapper.Get(e)
		sum = r2.Add(sum, pos.Vec())
	}
	g.Centroid = r2.Scale(1/float64(len(g.Members)), sum)
}

// PyramidSlot returns the position of slot index in a pyramid of count
// members anchored at its bottom center.
func PyramidSlot(anchor r2.Vec, index, count int, spacing float64) r2.Vec {
	row, col, width := pyramidCell(index, count)
	x := anchor.X + (float64(col)-float64(width-1)/2)*spacing
	y := anchor.Y - float64(row)*spacing*rowHeightFactor
	return r2.Vec{X: x, Y: y}
}

// pyramidCell maps a slot index to its row, column and row width. The base
// row is the smallest k with k(k+1)/2 >= count; rows shrink by one going up
// and fill bottom-up, so the top row may be partial.
func pyramidCell(index, count int) (row, col, width int) {
	base := 1
	for base*(base+1)/2 < count {
		base++
	}

	remaining := index
	for w := base; w > 0; w-- {
		if remaining < w {
			return base - w, remaining, w
		}
		remaining -= w
	}
	return 0, 0, 1
}

func byID(a, b Neighbor) int {
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}
