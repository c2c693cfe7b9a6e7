// Package main provides the entry point for the Weave Studio application.
package main

import (
	"flag"
	"log"
	"time"

	"weave-studio/internal/app"
	"weave-studio/internal/config"
	"weave-studio/internal/version"
	"weave-studio/ui/mainwindow"
	"weave-studio/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

const appID = "io.github.weavestudio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	configPath := flag.String("config", config.DefaultPath(), "path to config.toml")
	flag.Parse()

	log.Printf("Starting %s", version.String())

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Config: %v; using built-in defaults", err)
		cfg = config.Default()
	}

	a := fyneapp.NewWithID(appID)
	defaults := cfg.Params()
	a.Settings().SetTheme(mainwindow.NewWeaveTheme(defaults.WeftColor, defaults.WarpColor))

	state := app.NewState(cfg)
	win := mainwindow.New(a, state, prefs.Load())
	win.SetConfigPath(*configPath)

	setupConfigReload(*configPath, state)
	setupHotReload(win)

	win.ShowAndRun()
}

// setupConfigReload reloads the config file when it changes on disk. An
// invalid file keeps the previous configuration.
func setupConfigReload(path string, state *app.State) {
	watcher := app.NewFileWatcher(path, 2*time.Second)
	watcher.OnChange(func(time.Time) {
		cfg, err := config.Load(path)
		if err != nil {
			log.Printf("Config: reload failed, keeping previous: %v", err)
			return
		}
		log.Printf("Config: reloaded %s", path)
		state.SetConfig(cfg)
	})
	watcher.Start()
}

// setupHotReload offers a restart when the binary is recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	watcher := app.NewBinaryWatcher(2 * time.Second)
	if watcher == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}
	log.Printf("Hot reload: watching %s (modified %s)",
		watcher.Path(), watcher.Baseline().Format("15:04:05"))

	watcher.OnChange(func(time.Time) {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					watcher.ResetBaseline()
					watcher.Start()
					return
				}
				log.Println("Hot reload: saving session before restart...")
				win.SaveSession()
				if err := app.RestartProcess(watcher.Path()); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window)
	})
	watcher.Start()
}
