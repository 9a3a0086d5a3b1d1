package api

import (
	"encoding/json"
)

// Типы сообщений сервера
const (
	TypeHello  = "HELLO"
	TypeUpdate = "UPDATE"
	TypeError  = "ERROR"
)

// Режимы просмотра для зрителя
const (
	ViewFull     = "FULL"     // Вся карта
	ViewExplored = "EXPLORED" // Только то, что исследовал игрок
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет зрителю.
// UPDATE уходит после каждого хода симуляции.
type ServerResponse struct {
	// Type - HELLO (первое сообщение), UPDATE или ERROR.
	Type string `json:"type"`

	// Tick - сколько ходов сделано с запуска.
	Tick int `json:"tick"`

	Depth int   `json:"depth"`
	Seed  int64 `json:"seed"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Map - строки ASCII-карты, по одной на ряд (в режиме EXPLORED неисследованное - пробелы).
	Map []string `json:"map,omitempty"`

	// Entities - все акторы уровня.
	Entities []EntityView `json:"entities,omitempty"`

	// Logs последние сообщения журнала.
	Logs []LogEntry `json:"logs,omitempty"`

	// Error текст ошибки для Type == ERROR.
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// EntityView это DTO для актора.
type EntityView struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"` // PLAYER, MONSTER
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Speed  int    `json:"speed"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`
}

// LogEntry представляет одну запись в игровом журнале.
type LogEntry struct {
	ID        string `json:"id"`
	Tick      int    `json:"tick"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, DOOR, LEVEL
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - сообщение зрителя. Управлять симуляцией нельзя, только настроить просмотр.
type ClientCommand struct {
	// Action - пока только "VIEW".
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// ViewPayload переключает режим просмотра.
type ViewPayload struct {
	Mode string `json:"mode"` // FULL или EXPLORED
}
