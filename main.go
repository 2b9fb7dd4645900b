package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/pager/internal/platform"
	"github.com/ytget/pager/internal/preview"
	"github.com/ytget/pager/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.pager"
	AppName = "Pager"

	WindowWidth  = 480
	WindowHeight = 860

	DemoApps    = 37
	DemoWidgets = 9
)

func main() {
	fmt.Printf("Pager v%s starting...\n", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewLauncherTheme())
	if icon, err := ui.LoadLogoResource(); err == nil {
		myApp.SetIcon(icon)
	}

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	dataDir, err := platform.GetDataDir(AppID)
	if err != nil {
		log.Printf("failed to resolve data dir: %v", err)
		dataDir = os.TempDir()
	}
	if err := platform.CreateDirectoryIfNotExists(dataDir); err != nil {
		log.Printf("failed to ensure data dir: %v", err)
	}

	apps, widgets := platform.DemoItems(DemoApps, DemoWidgets)
	ids := platform.ItemIDs(apps, widgets)
	icons := platform.LoadIcons(filepath.Join(dataDir, platform.IconsDirName), ids)
	log.Printf("Loaded %d of %d icons from %s", len(icons), len(ids), dataDir)

	root, err := ui.NewRootUI(myWindow, myApp, apps, widgets, preview.WithSwatches(icons, ids), dataDir)
	if err != nil {
		log.Fatalf("failed to create launcher: %v", err)
	}
	myWindow.SetOnClosed(root.Close)

	myWindow.ShowAndRun()
}
