package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

func main() {
	defaults := DefaultSimConfig()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	clientDir := flag.String("client", "", "Path to client directory (default: ../client)")
	dbPath := flag.String("db", "moba.db", "SQLite database path, empty to disable persistence")
	baseURL := flag.String("base-url", "", "Public URL used in invite links (default: request host)")
	tickRate := flag.Int("tick-rate", defaults.TickRate, "Simulation steps per second")
	waveDelay := flag.Duration("wave-delay", defaults.WaveDelay, "Time between waves")
	spawnDelay := flag.Duration("spawn-delay", defaults.SpawnDelay, "Time between units of a wave")
	waveUnits := flag.Int("wave-units", defaults.WaveUnits, "Units per spawner per wave")
	simulate := flag.Duration("simulate", 0, "Run headless for this much simulated time and exit")
	flag.Parse()

	cfg := defaults
	cfg.TickRate = *tickRate
	cfg.WaveDelay = *waveDelay
	cfg.SpawnDelay = *spawnDelay
	cfg.WaveUnits = *waveUnits
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	if *simulate > 0 {
		summary, err := RunHeadless(cfg, *simulate)
		if err != nil {
			log.Fatalf("simulate: %v", err)
		}
		log.Printf("simulated %v: %s", *simulate, summary)
		return
	}

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = ""
		}
	}

	var db *DB
	var matchLog *MatchLog
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open database %s: %v", *dbPath, err)
		}
		matchLog = NewMatchLog(db)
	}

	sessions := NewSessionManager(cfg, db, matchLog)
	sessions.StartReaper(30 * time.Second)

	hub := NewHub(sessions, db)
	hub.baseURL = *baseURL
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s (%d ticks/s, wave every %v)", *addr, cfg.TickRate, cfg.WaveDelay)
		if *clientDir != "" {
			log.Printf("Serving client files from %s", *clientDir)
		}
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	sessions.Shutdown()
	matchLog.Stop()
	if db != nil {
		db.Close()
	}
}
