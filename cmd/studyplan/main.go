package main

import (
	"os"

	"github.com/yungbote/studyplan-backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
