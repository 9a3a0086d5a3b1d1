package domain

// MapView - то, что нужно FOV и поиску пути от карты.
// За границами карты обе проверки обязаны возвращать true.
type MapView interface {
	Width() int
	Height() int
	InBounds(p Position) bool
	BlocksMovement(p Position) bool
	BlocksSight(p Position) bool
}

// GameWorld - местность + фичи одного уровня и индекс акторов на нем.
type GameWorld struct {
	Terrain  *TerrainGrid    `json:"-"`
	Features *FeatureOverlay `json:"-"`
	Depth    int             `json:"depth"`

	// SpatialHash: Индекс позиции -> Список сущностей
	// Ключ: Y * Width + X
	SpatialHash    map[int][]*Entity    `json:"-"`
	EntityRegistry map[EntityID]*Entity `json:"-"`
}

// NewGameWorld оборачивает готовые местность и фичи.
func NewGameWorld(terrain *TerrainGrid, features *FeatureOverlay, depth int) *GameWorld {
	if features == nil {
		features = NewFeatureOverlay()
	}
	return &GameWorld{
		Terrain:        terrain,
		Features:       features,
		Depth:          depth,
		SpatialHash:    make(map[int][]*Entity),
		EntityRegistry: make(map[EntityID]*Entity),
	}
}

var _ MapView = (*GameWorld)(nil)
var _ MapView = (*TerrainGrid)(nil)
