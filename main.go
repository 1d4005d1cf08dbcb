// Package main provides the entry point for the PDF Snip application.
package main

import (
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"pdfsnip/internal/app"
	"pdfsnip/internal/version"
	"pdfsnip/ui/mainwindow"
	"pdfsnip/ui/prefs"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("PDFSNIP_DEBUG") != "" {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithField("version", version.Version).Info("starting PDF Snip")

	fyneApp := fyneapp.NewWithID("io.pdfsnip.viewer")
	fyneApp.Settings().SetTheme(app.NewViewerTheme())

	appState := app.NewState()
	appPrefs := prefs.Load()

	win := mainwindow.New(fyneApp, appState, appPrefs)

	// A path on the command line opens that document directly.
	if len(os.Args) > 1 {
		if err := win.OpenPath(os.Args[1]); err != nil {
			logrus.WithError(err).WithField("path", os.Args[1]).Error("opening document failed")
		}
	}

	win.ShowAndRun()
}
