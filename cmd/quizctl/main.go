package main

import (
	"os"

	"github.com/quizgenie/quizgenie/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
