package main

import (
	"context"
	"log"
	"os"

	"storefront/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Println("[MAIN] [ERROR]", err)
		os.Exit(1)
	}
}
