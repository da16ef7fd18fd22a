package main

import (
	"context"
	"os"

	"github.com/shipengqi/modelsync/cmd"
)

func main() {
	if err := cmd.Execute(context.Background(), cmd.NewModelsyncCommand()); err != nil {
		os.Exit(1)
	}
}
