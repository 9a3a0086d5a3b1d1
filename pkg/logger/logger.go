package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log *logrus.Logger

var (
	fallbackOnce sync.Once
	fallback     *logrus.Logger
)

// Init инициализирует глобальный логгер.
// Вызывается один раз при старте процесса (main.go) или в TestMain.
func Init() {
	Log = New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stdout)
}

// New собирает логгер с заданным уровнем и форматом.
// Пустой или неизвестный уровень трактуется как "info".
func New(levelName, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// "json" - для продакшена и сбора логов, иначе цветной текст для разработки.
	if strings.ToLower(format) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	l.SetOutput(out)
	return l
}

// Get возвращает глобальный логгер, а если Init не вызывался
// (библиотечное использование, тесты без TestMain) - молчаливый логгер.
func Get() *logrus.Logger {
	if Log != nil {
		return Log
	}
	fallbackOnce.Do(func() {
		fallback = New("panic", "text", io.Discard)
	})
	return fallback
}

// For возвращает entry с полем component.
func For(component string) *logrus.Entry {
	return Get().WithField("component", component)
}
