package logging

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	defaultLogFilePerm = 0o644
	defaultLogDirPerm  = 0o755
)

// New builds the application logger: console output always, plus a daily
// file sink when dir is non-empty. Callers should fall back to
// zap.NewProduction if this fails.
func New(dir string, dev bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if dev {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEnc := zapcore.NewConsoleEncoder(encCfg)
	cores := []zapcore.Core{
		zapcore.NewCore(consoleEnc, zapcore.Lock(os.Stdout), level),
	}

	if dir != "" {
		f, err := openDailyFile(dir)
		if err != nil {
			return nil, err
		}
		fileEnc := zapcore.NewJSONEncoder(encCfg)
		cores = append(cores, zapcore.NewCore(fileEnc, zapcore.Lock(f), level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

func openDailyFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, defaultLogDirPerm); err != nil {
		return nil, err
	}
	name := "server_" + time.Now().Format("2006-01-02") + ".log"
	return os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, defaultLogFilePerm)
}
