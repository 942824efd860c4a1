// Package logger builds *slog.Logger instances for the server.
//
// Development output goes through github.com/lmittmann/tint; staging and
// production emit JSON. Records can additionally be written to a rotating
// file (gopkg.in/natefinch/lumberjack.v2). Request-scoped values such as the
// request id are attached by ContextExtractor functions at log time:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "soda"),
//		logger.WithConfig(cfg.Log),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "user signed in", logger.UserID(u.ID))
package logger
