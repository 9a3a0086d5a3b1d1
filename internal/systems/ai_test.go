package systems

import (
	"testing"

	"undercroft-server/internal/domain"
)

func TestComputeNPCAction(t *testing.T) {
	// Helper to reset state for each test
	setup := func(t *testing.T) (*domain.GameWorld, *domain.Entity, *domain.Entity) {
		world := createTestWorld(t, 16, 16)
		player := &domain.Entity{
			ID:   domain.PackEntityID(domain.EntityKindPlayer, 1, 1),
			Kind: domain.EntityKindPlayer,
			Name: "Player",
			Pos:  domain.Position{X: 5, Y: 5},
		}
		npc := &domain.Entity{
			ID:   domain.PackEntityID(domain.EntityKindMonster, 1, 2),
			Kind: domain.EntityKindMonster,
			Name: "Goblin",
			Pos:  domain.Position{X: 1, Y: 1},
		}
		return world, npc, player
	}

	t.Run("Dead NPC should Wait", func(t *testing.T) {
		world, npc, player := setup(t)
		npc.IsDead = true

		if d := ComputeNPCAction(npc, player, world); d.Action != ActionWait {
			t.Errorf("Dead NPC should WAIT, got %v", d.Action)
		}
	})

	t.Run("Target Too Far", func(t *testing.T) {
		world, npc, player := setup(t)
		npc.Pos = domain.Position{X: 0, Y: 0}
		player.Pos = domain.Position{X: 15, Y: 15}

		if d := ComputeNPCAction(npc, player, world); d.Action != ActionWait {
			t.Errorf("NPC too far should WAIT, got %v", d.Action)
		}
	})

	t.Run("Target Adjacent", func(t *testing.T) {
		world, npc, player := setup(t)
		npc.Pos = domain.Position{X: 5, Y: 4}

		if d := ComputeNPCAction(npc, player, world); d.Action != ActionWait {
			t.Errorf("Adjacent NPC should WAIT, got %v", d.Action)
		}
	})

	t.Run("Target Behind Wall", func(t *testing.T) {
		world, npc, player := setup(t)
		npc.Pos = domain.Position{X: 5, Y: 2}
		world.Terrain.Set(domain.Position{X: 5, Y: 3}, domain.SolidRock)

		if d := ComputeNPCAction(npc, player, world); d.Action != ActionWait {
			t.Errorf("NPC without LOS should WAIT, got %v", d.Action)
		}
	})

	t.Run("Target In Pursuit Range", func(t *testing.T) {
		world, npc, player := setup(t)
		npc.Pos = domain.Position{X: 5, Y: 3}

		d := ComputeNPCAction(npc, player, world)
		if d.Action != ActionMove {
			t.Fatalf("NPC in aggro range should MOVE, got %v", d.Action)
		}
		// Move towards (5,5) from (5,3) => dy=+1
		if d.Dx != 0 || d.Dy != 1 {
			t.Errorf("Expected move (0,1), got (%d,%d)", d.Dx, d.Dy)
		}
	})
}

func TestComputeExplorerAction(t *testing.T) {
	world := createTestWorld(t, 10, 3)
	e := &domain.Entity{Pos: domain.Position{X: 0, Y: 1}}

	near := domain.Position{X: 3, Y: 1}
	far := domain.Position{X: 9, Y: 1}

	d := ComputeExplorerAction(e, []domain.Position{far, near}, world)
	if d.Action != ActionMove || d.Dx != 1 {
		t.Errorf("Expected step east toward nearest goal, got %+v", d)
	}

	if d := ComputeExplorerAction(e, nil, world); d.Action != ActionWait {
		t.Errorf("No goals should WAIT, got %+v", d)
	}
}
