package systems

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestParticlesFromEvents(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  int
	}{
		{"scare", NewScaredEvent(1, r2.Vec{X: 10}), 3},
		{"formed", NewGroupFormedEvent(1, r2.Vec{X: 10}, 5), 10},
		{"disbanded", NewGroupDisbandedEvent(1, r2.Vec{X: 10}, 5), 18},
		{"joined has no cue", NewGroupJoinedEvent(1, 1, r2.Vec{}), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := NewParticleSystem(rand.New(rand.NewSource(1)))
			ps.Emit([]Event{tt.event})
			if ps.Count() != tt.want {
				t.Errorf("count = %d, want %d", ps.Count(), tt.want)
			}
		})
	}
}

func TestParticlesExpire(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(1)))
	ps.Emit([]Event{NewGroupDisbandedEvent(1, r2.Vec{X: 100, Y: 100}, 10)})
	if ps.Count() == 0 {
		t.Fatal("expected particles")
	}

	for i := 0; i < 60; i++ {
		ps.Update(testDT)
		for _, p := range ps.Particles {
			if r := p.LifeRatio(); r <= 0 || r > 1 {
				t.Fatalf("live particle with life ratio %v", r)
			}
		}
	}
	if ps.Count() != 0 {
		t.Errorf("%d particles alive after 1s, max life is 0.8s", ps.Count())
	}
}

func TestParticlesCapped(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(1)))
	events := make([]Event, 100)
	for i := range events {
		events[i] = NewGroupDisbandedEvent(uint32(i), r2.Vec{}, 10)
	}
	ps.Emit(events)
	if ps.Count() != maxParticles {
		t.Errorf("count = %d, want cap %d", ps.Count(), maxParticles)
	}
}
