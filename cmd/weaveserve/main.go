// Command weaveserve serves rendered weaves over HTTP.
package main

import (
	"flag"
	"log"

	"weave-studio/internal/config"
	"weave-studio/internal/server"
	"weave-studio/internal/version"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Listen address (overrides [server] addr)")
	debug := flag.Bool("debug", false, "Run gin in debug mode")
	flag.Parse()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log.Printf("Starting %s", version.String())
	if err := server.New(cfg).Run(); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
