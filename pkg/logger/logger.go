package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init указывает на логгер по умолчанию, чтобы пакеты,
// которые логируют из тестов без TestMain, не падали на nil.
var Log = logrus.New()

// Init инициализирует глобальный логгер из окружения.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	Log = logrus.New()

	// Уровень из LOG_LEVEL. По умолчанию - "info", для отладки "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "text"
	}

	Configure(logLevel, logFormat)

	Log.SetOutput(os.Stdout)
}

// Configure переключает уровень и формат уже созданного логгера.
// Вызывается после загрузки конфига: значения из файла перекрывают окружение.
// Пустые строки оставляют текущие настройки.
func Configure(levelName, format string) {
	if levelName != "" {
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			level = logrus.InfoLevel
		}
		Log.SetLevel(level)
	}

	// "json" - для продакшена и сбора логов, "text" - для удобной разработки.
	switch strings.ToLower(format) {
	case "json":
		Log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}
}
