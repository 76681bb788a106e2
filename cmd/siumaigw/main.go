// Package main is the entry point for the siumaigw gateway binary — a
// thin HTTP front door over the siumai registry/executor/streaming
// stack, kept outside the core library's import graph.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/siumai-go/siumai/internal/config"
	"github.com/siumai-go/siumai/internal/gateway"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the gateway config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8787
	}

	srv := gateway.New(cfg)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("siumaigw listening on :%d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
