package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"minewatch/internal/config"
	"minewatch/internal/monitor"
	"minewatch/internal/server"
	"minewatch/internal/store"
	"minewatch/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	headless := flag.Bool("headless", false, "run without the system tray")
	flag.Parse()

	fmt.Println("Minewatch - Mining Site Camera Monitor")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dataDir, err := ensureDataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(dataDir, "minewatch.db")
	}
	if cfg.HookDir == "" {
		cfg.HookDir = filepath.Join(dataDir, "hooks")
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	mon := monitor.New(monitor.Config{
		Settings: cfg,
		Store:    st,
	})
	if err := mon.DiscoverHooks(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	} else if n := len(mon.Hooks().List()); n > 0 {
		log.Printf("Discovered %d alert hooks", n)
	}

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Monitor:   mon,
	})
	mon.OnRecord(srv.Events().Publish)

	var t *tray.Tray
	if !*headless {
		t = tray.New()
		mon.OnAlert(func(kind, detail string) {
			t.SetLastAlert(kind)
		})
	}

	mon.SetEnabled(true)
	if err := mon.Start(); err != nil {
		log.Fatalf("Failed to start monitoring: %v", err)
	}
	defer mon.Stop()

	fmt.Printf("Starting server on %s\n", cfg.Addr)
	if *headless {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		if err := srv.ListenAndServe(cfg.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t.OnToggle(func(enabled bool) {
		mon.SetEnabled(enabled)
	})
	t.OnNextModule(func() string {
		return string(mon.CycleModule())
	})
	t.OnDashboard(func() {
		openBrowser("http://localhost" + cfg.Addr)
	})
	t.OnQuit(func() {
		mon.Stop()
	})

	// Blocks until the quit menu item is clicked.
	t.Run()
}

// ensureDataDir creates and returns ~/.minewatch.
func ensureDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(homeDir, ".minewatch")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.minewatch/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".minewatch", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the given URL with the platform opener.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
