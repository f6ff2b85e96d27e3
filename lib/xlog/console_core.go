package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ XLogCore = (*consoleCore)(nil)

type consoleCore struct{}

func (cc *consoleCore) Build(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	writer LogOutWriterType,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) (core zapcore.Core, err error) {
	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	ws := getOutWriterByType(writer)
	core = zapcore.NewCore(getEncoderByType(encoder)(config), ws, lvlEnabler)
	return core, nil
}

// componentCoreEncoderCfg is shared by the child loggers of third
// party components. The caller is always inside the component.
func componentCoreEncoderCfg(parent *xLogger) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   parent.levelEncoder(),
		TimeKey:       "ts",
		EncodeTime:    parent.timeEncoder(),
		CallerKey:     coreKeyIgnored,
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
}

// newComponentLogger shares the parent's level, so changing the
// parent's level changes the child's too.
func newComponentLogger(parent *xLogger, name string) *xLogger {
	l := &xLogger{
		level:     parent.level,
		ctxFields: parent.ctxFields,
		writer:    parent.writer,
		encoder:   parent.encoder,
		lvlEnc:    parent.lvlEnc,
		tsEnc:     parent.tsEnc,
	}
	l.logger.Store(parent.
		zap().
		Named(name).
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewCore(
				parent.outEncoder()(componentCoreEncoderCfg(parent)),
				parent.writeSyncer(),
				parent.levelEnablerFunc(),
			)
		})),
	)
	return l
}
