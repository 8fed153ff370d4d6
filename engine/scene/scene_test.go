package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/lumen3d/lumen-go/engine/geometry"
)

func TestSceneAddGetRemove(t *testing.T) {
	s := NewScene(WithName("test"), WithWorkers(2))
	if s.Name() != "test" {
		t.Errorf("name = %q", s.Name())
	}

	id, err := s.Add(geometry.KindHypercube, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 1 {
		t.Fatalf("count = %d", s.Count())
	}

	obj := s.Get(id)
	if obj == nil {
		t.Fatal("object not found")
	}
	if len(obj.Positions()) != 16 {
		t.Errorf("tesseract should project 16 positions, got %d", len(obj.Positions()))
	}
	if len(obj.Edges()) != 32 {
		t.Errorf("tesseract should have 32 edges, got %d", len(obj.Edges()))
	}

	s.Remove(id)
	if s.Count() != 0 || s.Get(id) != nil {
		t.Error("remove failed")
	}
}

func TestSceneAddInvalid(t *testing.T) {
	s := NewScene()
	if _, err := s.Add(geometry.PolytopeKind("bogus"), 3); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
	if s.Count() != 0 {
		t.Error("failed add must not register an object")
	}
}

func TestSceneClassification(t *testing.T) {
	s := NewScene()
	if s.Classification() != "" {
		t.Errorf("empty scene classification = %q", s.Classification())
	}

	mustAdd := func(kind geometry.PolytopeKind) {
		t.Helper()
		if _, err := s.Add(kind, 3); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(geometry.KindSimplex)
	mustAdd(geometry.KindHypercube)
	mustAdd(geometry.KindHypercube)

	if got := s.Classification(); got != string(geometry.KindHypercube) {
		t.Errorf("classification = %q, want hypercube", got)
	}
}

func TestSceneAdvanceRotates(t *testing.T) {
	s := NewScene(WithWorkers(2))
	id, err := s.Add(geometry.KindHypercube, 4, WithSpin(math32.Pi, [2]int{0, 3}))
	if err != nil {
		t.Fatal(err)
	}
	before := s.Get(id).Positions()

	s.Advance(0.5)

	after := s.Get(id).Positions()
	moved := false
	for i := range after {
		for c := 0; c < 3; c++ {
			if math32.Abs(after[i][c]-before[i][c]) > 1e-4 {
				moved = true
			}
		}
	}
	if !moved {
		t.Fatal("advance should move projected positions")
	}
	if len(after) != len(before) {
		t.Fatal("advance must not change vertex count")
	}
}

func TestSceneAdvanceManyObjects(t *testing.T) {
	s := NewScene(WithWorkers(4))
	for i := 0; i < 16; i++ {
		if _, err := s.Add(geometry.KindOrthoplex, 4); err != nil {
			t.Fatal(err)
		}
	}
	// Exercises the pool barrier: all objects must be updated when Advance
	// returns.
	s.Advance(0.1)
	for _, obj := range s.Objects() {
		if len(obj.Positions()) != 8 {
			t.Fatalf("object %d has %d positions", obj.ID, len(obj.Positions()))
		}
	}
}
