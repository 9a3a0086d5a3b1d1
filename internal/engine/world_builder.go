package engine

import (
	"math/rand"

	"undercroft-server/internal/domain"
	"undercroft-server/pkg/dungeon"
)

// monsterTemplate - заготовка монстра. Скорость - прирост энергии за тик.
type monsterTemplate struct {
	Name   string
	Symbol byte
	Speed  int
	Vision int
}

var monsterTemplates = []monsterTemplate{
	{Name: "Крыса", Symbol: 'r', Speed: 150, Vision: 6},
	{Name: "Гоблин", Symbol: 'g', Speed: 100, Vision: 8},
	{Name: "Орк", Symbol: 'o', Speed: 90, Vision: 8},
	{Name: "Зомби", Symbol: 'z', Speed: 50, Vision: 5},
}

// playerID не зависит от глубины: игрок переходит между уровнями.
var playerID = domain.PackEntityID(domain.EntityKindPlayer, 0, 1)

func newPlayer() *domain.Entity {
	return &domain.Entity{
		ID:           playerID,
		Kind:         domain.EntityKindPlayer,
		Name:         "Герой",
		Symbol:       '@',
		MoveSpeed:    domain.DefaultSpeed,
		VisionRadius: domain.VisionRadius,
	}
}

// populateLevel размещает игрока и монстров на точках появления уровня
// и регистрирует всех в мире. Возвращает монстров в порядке точек появления.
func populateLevel(level *dungeon.Level, player *domain.Entity, rng *rand.Rand) []*domain.Entity {
	world := level.World

	player.Pos = level.PlayerSpawn
	world.AddEntity(player)

	monsters := make([]*domain.Entity, 0, len(level.MonsterSpawns))
	for idx, pos := range level.MonsterSpawns {
		tpl := monsterTemplates[rng.Intn(len(monsterTemplates))]
		m := &domain.Entity{
			ID:           domain.PackEntityID(domain.EntityKindMonster, int16(level.Depth), uint64(idx+1)),
			Kind:         domain.EntityKindMonster,
			Name:         tpl.Name,
			Symbol:       tpl.Symbol,
			Pos:          pos,
			MoveSpeed:    tpl.Speed,
			VisionRadius: tpl.Vision,
		}
		world.AddEntity(m)
		monsters = append(monsters, m)
	}
	return monsters
}
