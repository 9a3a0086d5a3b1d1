package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyTable_Defaults(t *testing.T) {
	table := NewPropertyTable()

	for _, kind := range AllTerrainKinds() {
		assert.True(t, table.Has(kind), kind.String())
	}
	assert.False(t, table.BlocksMovement(OpenGround))
	assert.True(t, table.BlocksMovement(SolidRock))
	assert.True(t, table.BlocksSight(SolidRock))
	assert.Equal(t, 200, table.Properties(ShallowLiquid).MovementCost)
}

func TestPropertyTable_LoadJSONOverrides(t *testing.T) {
	table := NewPropertyTable()

	cfg := `{
		"tiles": {
			"ShallowLiquid": {"movement_cost": 300, "blocks_los": false, "damage_per_turn": 1},
			"deepliquid":    {"movement_cost": 400, "blocks_los": false},
			"Lava":          {"movement_cost": 100}
		}
	}`
	require.NoError(t, table.LoadJSON(strings.NewReader(cfg)))

	shallow := table.Properties(ShallowLiquid)
	assert.Equal(t, 300, shallow.MovementCost)
	assert.Equal(t, 1, shallow.DamagePerTurn)

	// Глубокую воду конфиг сделал проходимой
	assert.False(t, table.BlocksMovement(DeepLiquid))

	// Нетронутые значения остаются
	assert.True(t, table.BlocksMovement(SolidRock))
}

func TestPropertyTable_LoadJSONErrorsKeepDefaults(t *testing.T) {
	table := NewPropertyTable()

	assert.Error(t, table.LoadJSON(strings.NewReader(`{not json`)))
	assert.Error(t, table.LoadJSON(strings.NewReader(`{"other": {}}`)))
	assert.Error(t, table.LoadJSON(strings.NewReader(`{"tiles": {"OpenGround": {"movement_cost": "fast"}}}`)))

	assert.Equal(t, 100, table.Properties(OpenGround).MovementCost)
}

func TestPropertyTable_MissingFieldsAreBlocking(t *testing.T) {
	table := NewPropertyTable()
	require.NoError(t, table.LoadJSON(strings.NewReader(`{"tiles": {"OpenGround": {}}}`)))

	assert.True(t, table.BlocksMovement(OpenGround))
	assert.True(t, table.BlocksSight(OpenGround))
}

func TestParseTerrainKind(t *testing.T) {
	kind, ok := ParseTerrainKind("solidrock")
	assert.True(t, ok)
	assert.Equal(t, SolidRock, kind)

	_, ok = ParseTerrainKind("magma")
	assert.False(t, ok)
}
