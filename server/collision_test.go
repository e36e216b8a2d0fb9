package main

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCheckCollision(t *testing.T) {
	// Overlapping circles
	if !CheckCollision(0, 0, 10, 15, 0, 10) {
		t.Error("circles should collide (overlapping)")
	}

	// Touching circles
	if !CheckCollision(0, 0, 10, 20, 0, 10) {
		t.Error("circles should collide (touching)")
	}

	// Non-overlapping circles
	if CheckCollision(0, 0, 10, 25, 0, 10) {
		t.Error("circles should not collide")
	}

	// Same position
	if !CheckCollision(5, 5, 1, 5, 5, 1) {
		t.Error("same position should collide")
	}
}

func unitAt(id EntityID, p Vec2) *Unit {
	return &Unit{ID: id, Pos: p, MoveSpeed: 1}
}

func TestResolveCollisionsSymmetricPush(t *testing.T) {
	const r = 10.0
	a := unitAt(1, V2(0, 0))
	b := unitAt(2, V2(1.5*r, 0))

	ResolveCollisions([]*Unit{a, b}, r)

	if !a.Pos.ApproxEqual(V2(-0.25*r, 0), 1e-9) || !b.Pos.ApproxEqual(V2(1.75*r, 0), 1e-9) {
		t.Errorf("unexpected positions a=%v b=%v", a.Pos, b.Pos)
	}
	if d := a.Pos.Dist(b.Pos); d < 2*r-1e-9 {
		t.Errorf("pair still overlaps: distance %v", d)
	}
}

func TestResolveCollisionsIdempotentWhenApart(t *testing.T) {
	const r = 10.0
	a := unitAt(1, V2(0, 0))
	b := unitAt(2, V2(2*r, 0)) // exactly touching
	c := unitAt(3, V2(0, 50))

	ResolveCollisions([]*Unit{a, b, c}, r)
	if a.Pos != V2(0, 0) || b.Pos != V2(2*r, 0) || c.Pos != V2(0, 50) {
		t.Errorf("non-overlapping units moved: %v %v %v", a.Pos, b.Pos, c.Pos)
	}

	// A resolved pair stays put on a second pass
	d := unitAt(4, V2(100, 100))
	e := unitAt(5, V2(105, 100))
	ResolveCollisions([]*Unit{d, e}, r)
	pd, pe := d.Pos, e.Pos
	ResolveCollisions([]*Unit{d, e}, r)
	if !d.Pos.ApproxEqual(pd, 1e-9) || !e.Pos.ApproxEqual(pe, 1e-9) {
		t.Errorf("second pass moved resolved pair: %v->%v %v->%v", pd, d.Pos, pe, e.Pos)
	}
}

func TestResolveCollisionsCoincident(t *testing.T) {
	const r = 10.0
	a := unitAt(1, V2(30, 30))
	b := unitAt(2, V2(30, 30))

	ResolveCollisions([]*Unit{a, b}, r)

	if !a.Pos.ApproxEqual(V2(20, 30), 1e-9) || !b.Pos.ApproxEqual(V2(40, 30), 1e-9) {
		t.Errorf("coincident units should split along X: a=%v b=%v", a.Pos, b.Pos)
	}
}

// A single pair always ends exactly 2r apart along its original axis, and
// its midpoint never moves.
func TestResolveCollisionsPairProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := rapid.Float64Range(1, 50).Draw(t, "r")
		ax := rapid.Float64Range(-1000, 1000).Draw(t, "ax")
		ay := rapid.Float64Range(-1000, 1000).Draw(t, "ay")
		dx := rapid.Float64Range(-1.9, 1.9).Draw(t, "dx")
		dy := rapid.Float64Range(-1.9, 1.9).Draw(t, "dy")

		a := unitAt(1, V2(ax, ay))
		b := unitAt(2, V2(ax+dx*r, ay+dy*r))
		mid := a.Pos.Add(b.Pos).Scale(0.5)
		overlapping := a.Pos.Dist(b.Pos) < 2*r

		ResolveCollisions([]*Unit{a, b}, r)

		if got := a.Pos.Add(b.Pos).Scale(0.5); !got.ApproxEqual(mid, 1e-6) {
			t.Fatalf("midpoint moved from %v to %v", mid, got)
		}
		if overlapping {
			if d := a.Pos.Dist(b.Pos); d < 2*r-1e-6 || d > 2*r+1e-6 {
				t.Fatalf("distance after resolve %v, want %v", d, 2*r)
			}
		}
	})
}

func TestCollisionPhaseSkipsStructures(t *testing.T) {
	s := newTestSim(t)
	var tower *Unit
	for _, u := range s.Units() {
		if u.Kind == KindTower {
			tower = u
			break
		}
	}
	towerPos := tower.Pos
	m := addMinion(s, tower.Team, tower.Pos.Add(V2(1, 0)), Stop(OverrideNone))

	s.collisionPhase()
	if tower.Pos != towerPos {
		t.Errorf("tower pushed to %v", tower.Pos)
	}
	if m.Pos != towerPos.Add(V2(1, 0)) {
		t.Errorf("minion pushed by a structure to %v", m.Pos)
	}
}
