package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"undercroft-server/internal/domain"
)

const (
	MagicHeader string = `DCLV` // 4 байта
	Version1    uint32 = 1

	// MaxLevelCells - больше клеток в файле не бывает (2048x2048).
	MaxLevelCells int64 = 1 << 22
)

var (
	ErrInvalidMagic       = errors.New("storage: invalid magic")
	ErrUnsupportedVersion = errors.New("storage: unsupported version")
	ErrUnknownFeature     = errors.New("storage: unknown feature kind")
	ErrUnknownTerrain     = errors.New("storage: unknown terrain kind")
	ErrInvalidHeader      = errors.New("storage: invalid header")
)

// Коды вариантов фич в файле
const (
	featureDoor   uint8 = 1
	featureStairs uint8 = 2
)

// LevelFileHeader — это точное представление заголовка файла в памяти.
// binary.Write умеет писать это целиком, так как тут нет слайсов и строк, только массивы и числа.
type LevelFileHeader struct {
	Magic        [4]byte // 4 байта
	Version      uint32  // 4 байта
	Seed         int64   // 8 байт
	Depth        int32   // 4 байта
	Width        int32   // 4 байта
	Height       int32   // 4 байта
	FeatureCount int32   // 4 байта
}

// FeatureRecord — одна фича. Смысл A/B/Target зависит от Kind:
// Door: A = материал, B = состояние; Stairs: A = направление, Target = глубина.
type FeatureRecord struct {
	X      int32 // 4
	Y      int32 // 4
	Kind   uint8 // 1
	A      uint8 // 1
	B      uint8 // 1
	_      uint8 // 1 (выравнивание)
	Target int32 // 4
}

// LevelSnapshot - все, что нужно для восстановления уровня без генерации.
type LevelSnapshot struct {
	Seed     int64
	Depth    int
	Terrain  *domain.TerrainGrid
	Features *domain.FeatureOverlay
}

// LevelStore сохраняет снимки уровней в каталог.
type LevelStore struct {
	SaveDir string
}

func NewLevelStore(dir string) (*LevelStore, error) {
	// Создаем папку если нет
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create save dir: %w", err)
	}
	return &LevelStore{SaveDir: dir}, nil
}

// Save пишет снимок в файл level_<seed>_d<depth>.dclv и возвращает путь.
func (s *LevelStore) Save(snap LevelSnapshot) (string, error) {
	filename := fmt.Sprintf("level_%d_d%d.dclv", snap.Seed, snap.Depth)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WriteLevel(bw, snap); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}

// WriteLevel сериализует местность и все фичи без потерь.
func WriteLevel(w io.Writer, snap LevelSnapshot) error {
	if snap.Terrain == nil {
		return errors.New("storage: snapshot has no terrain")
	}
	features := snap.Features
	if features == nil {
		features = domain.NewFeatureOverlay()
	}
	positions := features.Positions()

	// 1. Подготавливаем и пишем ГЛОБАЛЬНЫЙ ЗАГОЛОВОК
	header := LevelFileHeader{
		Version:      Version1,
		Seed:         snap.Seed,
		Depth:        int32(snap.Depth),
		Width:        int32(snap.Terrain.Width()),
		Height:       int32(snap.Terrain.Height()),
		FeatureCount: int32(len(positions)),
	}
	copy(header.Magic[:], MagicHeader) // Копируем строку в массив [4]byte

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Клетки: по байту на клетку, row-major
	cells := make([]byte, 0, snap.Terrain.Width()*snap.Terrain.Height())
	for y := 0; y < snap.Terrain.Height(); y++ {
		for x := 0; x < snap.Terrain.Width(); x++ {
			cells = append(cells, byte(snap.Terrain.At(domain.Position{X: x, Y: y})))
		}
	}
	if _, err := w.Write(cells); err != nil {
		return fmt.Errorf("failed to write terrain: %w", err)
	}

	// 3. Фичи
	for _, p := range positions {
		f, _ := features.Get(p)
		rec := FeatureRecord{X: int32(p.X), Y: int32(p.Y)}

		switch v := f.(type) {
		case domain.Door:
			rec.Kind = featureDoor
			rec.A = uint8(v.Material)
			rec.B = uint8(v.State)
		case domain.Stairs:
			rec.Kind = featureStairs
			rec.A = uint8(v.Direction)
			rec.Target = int32(v.TargetDepth)
		default:
			return fmt.Errorf("feature at %v: %w", p, ErrUnknownFeature)
		}

		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write feature at %v: %w", p, err)
		}
	}

	return nil
}
