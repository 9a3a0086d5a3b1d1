package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"undercroft-server/internal/domain"
)

// Load читает снимок из файла. props - таблица свойств для восстановленной местности (nil - по умолчанию).
func (s *LevelStore) Load(path string, props *domain.PropertyTable) (*LevelSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadLevel(bufio.NewReader(f), props)
}

// ReadLevel - обратная операция к WriteLevel.
func ReadLevel(r io.Reader, props *domain.PropertyTable) (*LevelSnapshot, error) {
	// 1. Читаем заголовок целиком
	var header LevelFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}

	// Размеры проверяем до любых аллокаций
	cellCount := int64(header.Width) * int64(header.Height)
	if header.Width <= 0 || header.Height <= 0 || cellCount > MaxLevelCells {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidHeader, header.Width, header.Height)
	}
	if header.FeatureCount < 0 || int64(header.FeatureCount) > cellCount {
		return nil, fmt.Errorf("%w: %d features", ErrInvalidHeader, header.FeatureCount)
	}

	grid, err := domain.NewTerrainGrid(int(header.Width), int(header.Height), domain.SolidRock, props)
	if err != nil {
		return nil, fmt.Errorf("restore terrain: %w", err)
	}

	// 2. Клетки
	cells := make([]byte, cellCount)
	if _, err := io.ReadFull(r, cells); err != nil {
		return nil, fmt.Errorf("failed to read terrain: %w", err)
	}
	for idx, c := range cells {
		kind := domain.TerrainKind(c)
		if kind > domain.DeepLiquid {
			return nil, fmt.Errorf("cell %d: %w (%d)", idx, ErrUnknownTerrain, c)
		}
		grid.Set(domain.Position{X: idx % int(header.Width), Y: idx / int(header.Width)}, kind)
	}

	// 3. Фичи
	overlay := domain.NewFeatureOverlay()
	for i := 0; i < int(header.FeatureCount); i++ {
		var rec FeatureRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read feature %d: %w", i, err)
		}

		p := domain.Position{X: int(rec.X), Y: int(rec.Y)}
		if !grid.InBounds(p) {
			return nil, fmt.Errorf("feature %d at %v: %w: out of bounds", i, p, ErrUnknownFeature)
		}

		f, err := decodeFeature(rec)
		if err != nil {
			return nil, fmt.Errorf("feature %d at %v: %w", i, p, err)
		}
		overlay.Add(p, f)
	}

	return &LevelSnapshot{
		Seed:     header.Seed,
		Depth:    int(header.Depth),
		Terrain:  grid,
		Features: overlay,
	}, nil
}

func decodeFeature(rec FeatureRecord) (domain.Feature, error) {
	switch rec.Kind {
	case featureDoor:
		if rec.A > uint8(domain.DoorStone) || rec.B > uint8(domain.DoorClosed) {
			return nil, fmt.Errorf("%w: door material %d state %d", ErrUnknownFeature, rec.A, rec.B)
		}
		return domain.Door{Material: domain.DoorMaterial(rec.A), State: domain.DoorState(rec.B)}, nil
	case featureStairs:
		if rec.A > uint8(domain.StairsUp) {
			return nil, fmt.Errorf("%w: stairs direction %d", ErrUnknownFeature, rec.A)
		}
		return domain.Stairs{Direction: domain.StairsDirection(rec.A), TargetDepth: int(rec.Target)}, nil
	}
	return nil, fmt.Errorf("%w (%d)", ErrUnknownFeature, rec.Kind)
}
