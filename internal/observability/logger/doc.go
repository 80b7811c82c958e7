// Package logger expone un logger zap único para todo el proceso, con
// loggers "scoped" por request que viajan en el context.Context.
//
// Inicialización (una vez, en el comando serve):
//
//	logger.Init(logger.Config{Env: cfg.Log.Env, Level: cfg.Log.Level, ServiceName: "authkit"})
//	defer logger.Sync()
//
// En controllers y services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("Login"))
//	log.Info("login ok", logger.UserID(u.ID))
package logger
