// Command server runs the langcorrect HTTP API.
//
// Usage:
//
//	server        start serving
//	server -env   print the environment variables it reads and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/langcorrect-backend/internal/app"
	"github.com/heartmarshall/langcorrect-backend/internal/config"
)

func main() {
	printEnv := flag.Bool("env", false, "print configuration environment variables and exit")
	flag.Parse()

	if *printEnv {
		desc, err := config.Describe()
		if err != nil {
			log.Fatalf("server: %v", err)
		}
		fmt.Println(desc)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
