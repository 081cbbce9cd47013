package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kochabonline/boot/core/reflect"
)

// RotateMode selects how file output is rotated.
type RotateMode int

const (
	RotateModeTime RotateMode = iota
	RotateModeSize
)

type Config struct {
	RotateMode       RotateMode
	Filepath         string `default:"log"`
	Filename         string `default:"app"`
	FileExt          string `default:"log"`
	RotatelogsConfig RotatelogsConfig
	LumberjackConfig LumberjackConfig
}

type RotatelogsConfig struct {
	MaxAge       int `default:"24"`
	RotationTime int `default:"1"`
}

type LumberjackConfig struct {
	MaxSize    int  `default:"100"`
	MaxBackups int  `default:"5"`
	MaxAge     int  `default:"30"`
	Compress   bool `default:"false"`
}

type Logger struct {
	zerolog.Logger
}

type Option func(*Logger)

// WithCaller attaches caller information to every event.
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithCallerSkip attaches caller information skipping the given frame count.
func WithCallerSkip(skip int) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().CallerWithSkipFrameCount(skip).Logger()
	}
}

// WithLevel sets the minimum level for this logger instance.
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	DefaultLogger = New()
}

func newBaseLogger(writer io.Writer) *Logger {
	return &Logger{
		Logger: zerolog.New(writer).With().Timestamp().Logger(),
	}
}

// New creates a Logger writing to the console.
func New(opts ...Option) *Logger {
	logger := newBaseLogger(consoleWriter())

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// NewFile creates a Logger writing to a rotated file.
func NewFile(c Config, opts ...Option) *Logger {
	logger := newBaseLogger(newFallbackWriter(c))

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// NewMulti creates a Logger writing to both a rotated file and the console.
func NewMulti(c Config, opts ...Option) *Logger {
	writer := newFallbackWriter(c)
	multi := zerolog.MultiLevelWriter(writer, consoleWriter())
	logger := newBaseLogger(multi)

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// newFallbackWriter falls back to the console when file output fails.
func newFallbackWriter(config Config) io.Writer {
	if err := config.initConfig(); err != nil {
		return consoleWriter()
	}

	writer, err := rotateWriter(config)
	if err != nil {
		return consoleWriter()
	}

	return writer
}

func (c *Config) initConfig() error {
	return reflect.SetDefaultTag(c)
}

func (c *Config) fileFullPath() string {
	return c.fileFullPathWithFormat("")
}

func (c *Config) fileFullPathWithFormat(format string) string {
	var builder strings.Builder
	builder.Grow(len(c.Filename) + len(format) + len(c.FileExt) + 3)

	builder.WriteString(c.Filename)
	if format != "" {
		builder.WriteByte('.')
		builder.WriteString(format)
	}
	builder.WriteByte('.')
	builder.WriteString(c.FileExt)

	return filepath.Join(c.Filepath, builder.String())
}

func consoleWriter() zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	output.FormatLevel = func(i any) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	return output
}

func rotateWriter(config Config) (io.Writer, error) {
	switch config.RotateMode {
	case RotateModeTime:
		return timeRotateWriter(config)
	case RotateModeSize:
		return sizeRotateWriter(config)
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %d", config.RotateMode)
	}
}

func timeRotateWriter(config Config) (io.Writer, error) {
	writer, err := rotatelogs.New(
		config.fileFullPathWithFormat("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(config.fileFullPath()),
		rotatelogs.WithMaxAge(time.Duration(config.RotatelogsConfig.MaxAge)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.RotatelogsConfig.RotationTime)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time rotate writer: %w", err)
	}
	return writer, nil
}

func sizeRotateWriter(config Config) (io.Writer, error) {
	return &lumberjack.Logger{
		Filename:   config.fileFullPath(),
		MaxSize:    config.LumberjackConfig.MaxSize,
		MaxBackups: config.LumberjackConfig.MaxBackups,
		MaxAge:     config.LumberjackConfig.MaxAge,
		Compress:   config.LumberjackConfig.Compress,
	}, nil
}
