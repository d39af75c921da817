package main

import (
	"preservice-attendance/internal/app"
	"preservice-attendance/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunSyncWorker(); err != nil {
		logger.Fatal("run sync worker failed", zap.Error(err))
	}
}
