package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"redgo/internal/config"
	"redgo/internal/persistence"
	"redgo/internal/server"
	"redgo/internal/store"
)

func main() {
	host := flag.String("host", "", "address to bind to (overrides config file)")
	port := flag.Int("port", 0, "port to listen on (overrides config file)")
	flag.IntVar(port, "p", 0, "shorthand for -port")
	logLevel := flag.String("loglevel", "", "log verbosity (overrides config file)")
	flag.StringVar(logLevel, "l", "", "shorthand for -loglevel")
	configPath := flag.String("config", "", "path to a redgo config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		if err := cfg.LoadFile(*configPath); err != nil {
			log.Fatalf("redgo: failed to load config %q: %v", *configPath, err)
		}
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("redgo: failed to create data directory %q: %v", cfg.DataDir, err)
	}

	ks := store.New()
	defer ks.Close()
	ps := store.NewPubSub()

	rdbPath := cfg.RDBPath()
	entries, err := persistence.Load(rdbPath)
	if err != nil {
		log.Printf("redgo: warning: failed to load %s: %v", rdbPath, err)
		log.Printf("redgo: starting with an empty keyspace")
	} else if entries != nil {
		ks.Restore(entries)
		log.Printf("redgo: loaded %d keys from %s", len(entries), rdbPath)
	}

	savePoints := make([]persistence.SavePoint, len(cfg.SaveIntervals))
	for i, sp := range cfg.SaveIntervals {
		savePoints[i] = persistence.SavePoint{Seconds: sp.Seconds, Changes: sp.Changes}
	}
	saver := persistence.NewSaver(rdbPath, ks, savePoints)
	saver.Start()
	defer saver.Stop()

	srv := server.New(server.Options{
		Host:       cfg.Host,
		Port:       cfg.Port,
		MaxClients: cfg.MaxClients,
		Saver:      saver,
	}, ks, ps)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("redgo: shutting down")
		srv.Shutdown()
		os.Exit(0)
	}()

	log.Printf("redgo: listening on %s:%d (data dir %s)", cfg.Host, cfg.Port, cfg.DataDir)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("redgo: %v", err)
	}
}
