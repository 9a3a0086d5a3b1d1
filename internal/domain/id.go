package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Kind + Depth + Index)
type EntityID uint64

// NilEntityID - отсутствие сущности.
const NilEntityID EntityID = 0

// Конфигурация битов
const (
	bitsIndex = 40
	bitsDepth = 16
	bitsKind  = 8

	// Сдвиги
	shiftDepth = bitsIndex
	shiftKind  = bitsIndex + bitsDepth

	// Маски (для извлечения значений)
	maskIndex = (1 << bitsIndex) - 1 // 0x000000FFFFFFFFFF
	maskDepth = (1 << bitsDepth) - 1 // 0xFFFF
	maskKind  = (1 << bitsKind) - 1  // 0xFF
)

// PackEntityID создает ID из компонентов
func PackEntityID(kind EntityKind, depth int16, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(uint16(depth)) & maskDepth) << shiftDepth
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Depth() int16 {
	return int16((id >> shiftDepth) & maskDepth)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [Kind:Depth:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Depth(), id.Index())
}
