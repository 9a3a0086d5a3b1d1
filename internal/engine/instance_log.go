package engine

import (
	"fmt"
	"time"

	"undercroft-server/pkg/api"
	"undercroft-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Типы записей журнала
const (
	LogTypeInfo  = "INFO"
	LogTypeDoor  = "DOOR"
	LogTypeLevel = "LEVEL"
)

// maxLogEntries - сколько последних записей держит инстанс
const maxLogEntries = 64

// AddLog добавляет лог в историю инстанса. Вызывается под блокировкой инстанса.
func (i *Instance) AddLog(text, logType string) {
	now := time.Now()
	i.Logs = append(i.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%d_%d", i.CurrentTick, now.UnixNano()),
		Tick:      i.CurrentTick,
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	})
	if over := len(i.Logs) - maxLogEntries; over > 0 {
		i.Logs = append(i.Logs[:0], i.Logs[over:]...)
	}

	logger.Get().WithFields(logrus.Fields{
		"component": "game_log",
		"log_type":  logType,
		"tick":      i.CurrentTick,
	}).Info(text)
}
