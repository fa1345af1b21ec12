package main

import (
	"fmt"
	"os"

	"whispermap/internal/cli"
	"whispermap/internal/logging"
)

func main() {
	logging.Init(logging.Config{Level: os.Getenv("WHISPER_LOG_LEVEL"), Format: "console"})

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
