// Package log tags log lines with the connection, session and statement they
// came from. Anything carrying a context can log through it.
package log

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const (
	ConnIDKey    ctxKey = "ConnID"
	SessionIDKey ctxKey = "SessionID"
	ChannelIDKey ctxKey = "ChanID"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init replaces the process logger with a production zap logger at the given
// level (debug, info, warn, error). Until it is called nothing is logged.
func Init(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("bad log level %q: %v", level, err)
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	built, err := config.Build()
	if err != nil {
		return err
	}
	SetLogger(built)
	return nil
}

func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Sync() error {
	return L().Sync()
}

func ctxFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if connID := ctx.Value(ConnIDKey); connID != nil {
		fields = append(fields, zap.Any("conn", connID))
	}
	if sessionID := ctx.Value(SessionIDKey); sessionID != nil {
		fields = append(fields, zap.Any("session", sessionID))
	}
	if chanID := ctx.Value(ChannelIDKey); chanID != nil {
		fields = append(fields, zap.Any("stmt", chanID))
	}
	return fields
}

func Println(l Loggable, args ...interface{}) {
	msg := fmt.Sprintln(args...)
	L().Info(msg[:len(msg)-1], ctxFields(l.Ctx())...)
}

func Printf(l Loggable, format string, args ...interface{}) {
	L().Info(fmt.Sprintf(format, args...), ctxFields(l.Ctx())...)
}

func Errorf(l Loggable, format string, args ...interface{}) {
	L().Error(fmt.Sprintf(format, args...), ctxFields(l.Ctx())...)
}

type Loggable interface {
	Ctx() context.Context
}
