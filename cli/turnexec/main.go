package main

import (
	"os"

	turnexeccmder "github.com/papercomputeco/turnexec/cmd/turnexec"
)

func main() {
	cmd := turnexeccmder.NewTurnexecCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
