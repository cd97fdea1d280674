package dispatch

import (
	"time"

	"go.uber.org/zap"
)

// LoggingMiddleware logs every dispatch through a zap logger.
// It implements both InwardMiddleware and OutwardMiddleware.
type LoggingMiddleware struct {
	log *zap.Logger
}

func NewLoggingMiddleware(log *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{log: log}
}

func (mdl *LoggingMiddleware) HandleInward(invocation string, args []any) error {
	mdl.log.Debug("dispatching",
		zap.String("invocation", invocation),
		zap.Int("args", len(args)))
	return nil
}

func (mdl *LoggingMiddleware) HandleOutward(invocation string, data any, err error, elapsed time.Duration) {
	if err != nil {
		mdl.log.Error("dispatch failed",
			zap.String("invocation", invocation),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return
	}
	mdl.log.Debug("dispatched",
		zap.String("invocation", invocation),
		zap.Duration("elapsed", elapsed))
}

// LoggingErrorHandler logs every error routed through the registry's error handlers.
type LoggingErrorHandler struct {
	log *zap.Logger
}

func NewLoggingErrorHandler(log *zap.Logger) *LoggingErrorHandler {
	return &LoggingErrorHandler{log: log}
}

func (hdl *LoggingErrorHandler) Handle(invocation string, args []any, err error) {
	hdl.log.Error("dispatch error",
		zap.String("invocation", invocation),
		zap.Int("args", len(args)),
		zap.Error(err))
}
