// Package rxlog wraps charmbracelet/log with the handful of levels the PHY
// pipeline and simulator need, so library code never reaches for
// log.Fatal/os.Exit -- only cmd/gophy decides what a fatal error means.
package rxlog

import (
	"os"

	"github.com/charmbracelet/log"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Level:           log.InfoLevel,
})

// SetLevel adjusts verbosity; cmd/gophy wires this to a --debug flag.
func SetLevel(debug bool) {
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

func Debug(msg string, kv ...interface{}) { logger.Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { logger.Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { logger.Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { logger.Error(msg, kv...) }
