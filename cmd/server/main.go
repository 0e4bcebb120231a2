// Copyright 2026 Alex Martinez
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/akmartinez/corkboard/internal/config"
	"github.com/akmartinez/corkboard/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "corkboard",
		Usage:  "Message board with login",
		Flags:  config.Flags(),
		Action: server.Run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
