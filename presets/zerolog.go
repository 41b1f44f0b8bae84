package presets

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the improv.Logger interface.
type ZerologLogger struct {
	log zerolog.Logger
}

func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (zl *ZerologLogger) Info(args ...interface{}) {
	zl.log.Info().Msg(fmt.Sprint(args...))
}

func (zl *ZerologLogger) Error(args ...interface{}) {
	zl.log.Error().Msg(fmt.Sprint(args...))
}

func (zl *ZerologLogger) Debug(args ...interface{}) {
	zl.log.Debug().Msg(fmt.Sprint(args...))
}
