package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger routes the fx lifecycle events into the "Fx" component
// logger. Successful wiring is logged at debug level only.
type FxXLogger struct {
	logger XLogger
}

func fnFields(fn, caller string) []zap.Field {
	return []zap.Field{
		zap.String("function", fn),
		zap.String("caller", caller),
	}
}

func moduleField(module string) zap.Field {
	if module == "" {
		return zap.Skip()
	}
	return zap.String("module", module)
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("hook OnStart executing", fnFields(e.FunctionName, e.CallerName)...)
	case *fxevent.OnStartExecuted:
		fields := append(fnFields(e.FunctionName, e.CallerName), zap.Duration("runtime", e.Runtime))
		if e.Err != nil {
			l.logger.Error(e.Err, "hook OnStart failed", fields...)
			return
		}
		l.logger.Debug("hook OnStart executed", fields...)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("hook OnStop executing", fnFields(e.FunctionName, e.CallerName)...)
	case *fxevent.OnStopExecuted:
		fields := append(fnFields(e.FunctionName, e.CallerName), zap.Duration("runtime", e.Runtime))
		if e.Err != nil {
			l.logger.Error(e.Err, "hook OnStop failed", fields...)
			return
		}
		l.logger.Debug("hook OnStop executed", fields...)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "supply failed",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
			)
			return
		}
		l.logger.Debug("supplied", zap.String("type", e.TypeName), moduleField(e.ModuleName))
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("provided",
				zap.Bool("private", e.Private),
				zap.String("type", rtype),
				zap.String("constructor", e.ConstructorName),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "provide failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Replaced:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("replaced", zap.String("type", rtype), moduleField(e.ModuleName))
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "replace failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Decorated:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("decorated",
				zap.String("type", rtype),
				zap.String("decorator", e.DecoratorName),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "decorate failed", zap.Strings("stacktrace", e.StackTrace))
		}
	case *fxevent.Invoking:
		l.logger.Debug("invoking", zap.String("function", e.FunctionName), moduleField(e.ModuleName))
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "invoke failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("stopping", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "stop failed")
		}
	case *fxevent.RollingBack:
		l.logger.Error(e.StartErr, "start failed, rolling back")
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "rollback failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "start failed")
			return
		}
		l.logger.Debug("started")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "custom logger initialization failed")
			return
		}
		l.logger.Debug("custom logger initialized", zap.String("constructor", e.ConstructorName))
	}
}

// NewFxXLogger returns a logger dropping every event if parent is not
// built by NewXLogger.
func NewFxXLogger(parent XLogger) *FxXLogger {
	xl, ok := parent.(*xLogger)
	if !ok || xl == nil {
		return &FxXLogger{}
	}
	return &FxXLogger{logger: newComponentLogger(xl, "Fx")}
}
