// Package main provides the entry point for the Lanfinitas Studio application.
package main

import (
	"log"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"lanfinitas-studio/internal/app"
	"lanfinitas-studio/internal/version"
	"lanfinitas-studio/ui/mainwindow"
	"lanfinitas-studio/ui/prefs"
)

const appTitle = "Lanfinitas Studio"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := fyneapp.New()
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appPrefs)
	win.SetTitle(appTitle)

	if len(os.Args) > 1 {
		designPath := os.Args[1]
		if err := win.OpenDesignFile(designPath); err != nil {
			log.Printf("Failed to open design %s: %v", designPath, err)
		}
	}

	setupHotReload(win)

	win.Show()
	win.PromptRecovery()
	fyneApp.Run()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	log.Printf("Hot reload: watching %s (modified %s)",
		reloader.ExecPath(), reloader.StartupTime().Format("15:04:05"))

	reloader.OnTick(func() {
		win.SavePreferences()
	})

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.NewConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: saving preferences before restart...")
				win.SavePreferences()
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win.Window).Show()
	})

	reloader.Start()
}
