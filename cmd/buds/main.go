package main

import (
	"fmt"
	"os"

	"github.com/pairingbuds/buds/internal/buds/app"
)

func main() {
	os.Exit(run())
}

// run keeps main free of os.Exit so deferred cleanup inside the
// application can fire before the process terminates.
func run() int {
	application, err := app.New(app.LoadConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "buds: init:", err)
		return 1
	}

	if err := application.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "buds:", err)
		return 1
	}

	return 0
}
