package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"undercroft-server/internal/engine"
	"undercroft-server/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Instance *engine.Instance
}

func NewDebugHandler(inst *engine.Instance) *DebugHandler {
	return &DebugHandler{Instance: inst}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/level", h.handleLevel)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/queue", h.handleTurnQueue)
}

// /debug/level?format=json|ascii|binary - текущий уровень
func (h *DebugHandler) handleLevel(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))

	switch format {
	case "", "json":
		writeJSON(w, h.Instance.Snapshot())

	case "ascii":
		snap := h.Instance.Snapshot()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := w.Write([]byte(strings.Join(snap.Map, "\n") + "\n")); err != nil {
			logger.Log.WithError(err).Debug("ascii write failed")
		}

	case "binary":
		// Сначала в буфер: при ошибке еще можно ответить 500
		var buf bytes.Buffer
		if err := h.Instance.WriteLevel(&buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="level.dclv"`)
		if _, err := w.Write(buf.Bytes()); err != nil {
			logger.Log.WithError(err).Debug("binary write failed")
		}

	default:
		http.Error(w, "unknown format: "+format, http.StatusBadRequest)
	}
}

// /debug/entities - все акторы текущего уровня
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Instance.Snapshot().Entities)
}

// /debug/queue - просмотр очереди ходов.
// TurnQueue - это куча, порядок в слайсе не совпадает с порядком ходов.
func (h *DebugHandler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Instance.QueueDump())
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil (например, пустая очередь), возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("json encode failed")
	}
}
