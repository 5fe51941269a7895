package main

import (
	"os"

	"github.com/stockboard/stockboard/pkg/logger"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
