package log

import (
	"github.com/rs/zerolog"
)

var (
	DefaultLogger *Logger
)

// SetGlobalLogger replaces the package level logger.
func SetGlobalLogger(logger *Logger) {
	DefaultLogger = logger
}

// SetGlobalLevel sets the level of the package level logger.
func SetGlobalLevel(level zerolog.Level) {
	DefaultLogger.Logger = DefaultLogger.Logger.Level(level)
}

func Debug() *zerolog.Event {
	return DefaultLogger.Debug()
}

func Info() *zerolog.Event {
	return DefaultLogger.Info()
}

func Warn() *zerolog.Event {
	return DefaultLogger.Warn()
}

func Error() *zerolog.Event {
	return DefaultLogger.Error().Stack()
}

func Fatal() *zerolog.Event {
	return DefaultLogger.Fatal().Stack()
}

func Debugf(format string, args ...any) {
	DefaultLogger.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	DefaultLogger.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	DefaultLogger.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	DefaultLogger.Error().Stack().Msgf(format, args...)
}
