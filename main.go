// Package main provides the entry point for the Mask Painter application.
package main

import (
	"log"
	"os"

	"fyne.io/fyne/v2/app"

	"mask-painter/internal/version"
	"mask-painter/ui/mainwindow"
	"mask-painter/ui/prefs"
)

const appTitle = "Mask Painter"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.Version)

	fyneApp := app.New()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appPrefs)

	if len(os.Args) > 1 {
		win.OpenImage(os.Args[1])
	}

	win.ShowAndRun()
}
