package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeature_Properties(t *testing.T) {
	tests := []struct {
		name        string
		feature     Feature
		blocks      bool
		glyph       byte
		interactive bool
	}{
		{"closed wooden door", Door{Material: DoorWood, State: DoorClosed}, true, '+', true},
		{"open iron door", Door{Material: DoorIron, State: DoorOpen}, false, '\'', true},
		{"stairs down", Stairs{Direction: StairsDown, TargetDepth: 2}, false, '>', true},
		{"stairs up", Stairs{Direction: StairsUp, TargetDepth: 0}, false, '<', true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.blocks, tt.feature.BlocksMovement())
			assert.Equal(t, tt.blocks, tt.feature.BlocksSight())
			assert.Equal(t, tt.glyph, tt.feature.Glyph())
			assert.Equal(t, tt.interactive, tt.feature.Interactable())
		})
	}
}

func TestFeatureOverlay_Upsert(t *testing.T) {
	o := NewFeatureOverlay()
	p := Position{X: 3, Y: 4}

	o.Add(p, Door{Material: DoorStone, State: DoorClosed})
	o.Add(p, Stairs{Direction: StairsDown, TargetDepth: 5})

	assert.Equal(t, 1, o.Len())
	f, ok := o.Get(p)
	assert.True(t, ok)
	assert.Equal(t, Stairs{Direction: StairsDown, TargetDepth: 5}, f)
}

func TestFeatureOverlay_RemoveAndAbsent(t *testing.T) {
	o := NewFeatureOverlay()
	p := Position{X: 1, Y: 1}

	o.Remove(p) // no-op
	_, ok := o.Get(p)
	assert.False(t, ok)
	assert.False(t, o.BlocksMovement(p))
	assert.False(t, o.BlocksSight(p))

	o.Add(p, Door{State: DoorClosed})
	assert.True(t, o.BlocksMovement(p))
	o.Remove(p)
	assert.False(t, o.Has(p))
}

func TestFeatureOverlay_DoorMutators(t *testing.T) {
	o := NewFeatureOverlay()
	door := Position{X: 2, Y: 2}
	stairs := Position{X: 5, Y: 2}
	o.Add(door, Door{Material: DoorWood, State: DoorClosed})
	o.Add(stairs, Stairs{Direction: StairsDown, TargetDepth: 1})

	assert.True(t, o.OpenDoor(door))
	assert.False(t, o.BlocksSight(door))

	state, ok := o.ToggleDoor(door)
	assert.True(t, ok)
	assert.Equal(t, DoorClosed, state)
	assert.True(t, o.BlocksMovement(door))

	// Материал при переключении не теряется
	f, _ := o.Get(door)
	assert.Equal(t, DoorWood, f.(Door).Material)

	assert.False(t, o.OpenDoor(stairs))
	assert.False(t, o.CloseDoor(Position{}))
}

func TestFeatureOverlay_PositionsRowMajor(t *testing.T) {
	o := NewFeatureOverlay()
	o.Add(Position{X: 5, Y: 1}, Door{})
	o.Add(Position{X: 1, Y: 2}, Stairs{})
	o.Add(Position{X: 0, Y: 1}, Stairs{})

	assert.Equal(t, []Position{{0, 1}, {5, 1}, {1, 2}}, o.Positions())
	assert.Equal(t, []Position{{0, 1}, {1, 2}}, o.StairsPositions())

	o.Clear()
	assert.Empty(t, o.Positions())
}
