package log

import (
	"io"
	"os"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultLogger *zap.SugaredLogger
	out           zapcore.WriteSyncer = zapcore.Lock(os.Stderr)
	level                             = zap.NewAtomicLevelAt(zap.WarnLevel)
	runId                             = "1"
)

func init() {
	defaultLogger = newLogger()
}

func newLogger() *zap.SugaredLogger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, level)
	return zap.New(core).Sugar().With("run", runId)
}

// SetId tags every following log entry with the given run id.
func SetId(s string) {
	runId = s
	defaultLogger = newLogger()
}

// SetLevel accepts zap level names (debug, info, warn, error).
func SetLevel(l string) error {
	lvl, err := zapcore.ParseLevel(l)
	if err != nil {
		return errors.Wrapf(err, "log level %q", l)
	}
	level.SetLevel(lvl)
	return nil
}

func SetOutput(w io.Writer) {
	out = zapcore.AddSync(w)
	defaultLogger = newLogger()
}

func Sync() {
	_ = defaultLogger.Sync()
}

func Infof(s string, args ...any) {
	defaultLogger.Infow(s, args...)
}

func Errorf(s string, args ...any) {
	defaultLogger.Errorw(s, args...)
}

func Debugf(s string, args ...any) {
	defaultLogger.Debugw(s, args...)
}

func Warnf(s string, args ...any) {
	defaultLogger.Warnw(s, args...)
}
