// Package logging configures process-wide logging. The TUI owns stdout, so
// logs go to a rotating file under the data directory.
package logging

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the global logrus logger at a rotating file and sets the
// level. An unknown level name falls back to info.
func Setup(dataDir, level string) {
	logrus.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "safeboard.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	})
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
