package domain

import (
	"strings"
	"testing"
)

func newTestWorld(t *testing.T, w, h int) *GameWorld {
	t.Helper()
	grid, err := NewTerrainGrid(w, h, OpenGround, nil)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return NewGameWorld(grid, nil, 1)
}

func TestGameWorld_AddRemoveEntity(t *testing.T) {
	world := newTestWorld(t, 10, 10)

	e := &Entity{
		ID:  PackEntityID(EntityKindMonster, 1, 1),
		Pos: Position{X: 5, Y: 5},
	}

	world.AddEntity(e)

	if len(world.SpatialHash) == 0 {
		t.Error("SpatialHash should not be empty after adding entity")
	}

	retrieved := world.GetEntity(e.ID)
	if retrieved != e {
		t.Errorf("GetEntity returned wrong entity: got %v want %v", retrieved, e)
	}
	if world.BlockingEntityAt(e.Pos) != e {
		t.Error("entity should block its cell")
	}

	if err := world.UpdateEntityPos(e, Position{X: 6, Y: 5}); err != nil {
		t.Fatalf("UpdateEntityPos: %v", err)
	}
	if len(world.GetEntitiesAt(Position{X: 5, Y: 5})) != 0 {
		t.Error("old cell should be empty after move")
	}
	if err := world.UpdateEntityPos(e, Position{X: 10, Y: 5}); err == nil {
		t.Error("expected out of bounds error")
	}

	world.RemoveEntity(e)

	if world.GetEntity(e.ID) != nil {
		t.Error("Entity should be nil after removal")
	}
	if len(world.SpatialHash) != 0 {
		t.Errorf("SpatialHash should be empty, got %d cells", len(world.SpatialHash))
	}
}

func TestGameWorld_BlockingCombinesTerrainAndFeatures(t *testing.T) {
	world := newTestWorld(t, 5, 5)
	door := Position{X: 2, Y: 2}
	world.Features.Add(door, Door{State: DoorClosed})

	if !world.BlocksMovement(door) || !world.BlocksSight(door) {
		t.Error("closed door must block movement and sight")
	}

	world.Features.OpenDoor(door)
	if world.BlocksMovement(door) || world.BlocksSight(door) {
		t.Error("open door must not block")
	}

	world.Terrain.Set(Position{X: 0, Y: 0}, SolidRock)
	if !world.BlocksMovement(Position{X: 0, Y: 0}) {
		t.Error("rock must block")
	}
	if !world.BlocksSight(Position{X: -1, Y: 0}) {
		t.Error("out of bounds must block sight")
	}
}

func TestGameWorld_Render(t *testing.T) {
	world := newTestWorld(t, 3, 2)
	world.Terrain.Set(Position{X: 0, Y: 0}, SolidRock)
	world.Features.Add(Position{X: 1, Y: 0}, Stairs{Direction: StairsDown, TargetDepth: 2})
	world.AddEntity(&Entity{ID: PackEntityID(EntityKindPlayer, 1, 1), Symbol: '@', Pos: Position{X: 2, Y: 1}})

	got := world.Render()
	want := strings.Join([]string{"#>.", "..@", ""}, "\n")
	if got != want {
		t.Errorf("Render mismatch:\n%q\nwant\n%q", got, want)
	}
}

func TestEntityID_Pack(t *testing.T) {
	id := PackEntityID(EntityKindMonster, 7, 42)
	if id.Kind() != EntityKindMonster || id.Depth() != 7 || id.Index() != 42 {
		t.Errorf("unexpected unpack: %s", id)
	}

	data, err := id.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	var back EntityID
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if back != id {
		t.Errorf("round trip: got %d want %d", back, id)
	}
}

func TestPosition_Distances(t *testing.T) {
	a := Position{X: 1, Y: 1}
	b := Position{X: 4, Y: 3}

	if a.Manhattan(b) != 5 {
		t.Errorf("Manhattan = %d", a.Manhattan(b))
	}
	if a.Chebyshev(b) != 3 {
		t.Errorf("Chebyshev = %d", a.Chebyshev(b))
	}
	if !a.IsAdjacent(Position{X: 2, Y: 2}) || a.IsAdjacent(a) {
		t.Error("IsAdjacent is wrong")
	}
}
