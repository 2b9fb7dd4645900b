// Command pager-sim replays a gesture script against a headless paging
// surface and prints page switches, populate requests and preview deliveries.
//
//	pager-sim -apps 12 -widgets 5 -script "fling 400 60; wait 600; tap 470; pinch; wait 400"
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ytget/pager/internal/config"
	"github.com/ytget/pager/internal/pager"
	"github.com/ytget/pager/internal/platform"
	"github.com/ytget/pager/internal/preview"
)

const defaultScript = "fling 400 60; wait 600; drag 100 300; wait 600; tap 470; wait 600; pinch; wait 400"

func main() {
	configPath := flag.String("config", "", "TOML options file")
	apps := flag.Int("apps", 12, "number of apps")
	widgets := flag.Int("widgets", 5, "number of widgets")
	script := flag.String("script", defaultScript, "steps separated by ';'")
	scriptFile := flag.String("script-file", "", "read steps from a file instead of -script")
	dumpConfig := flag.Bool("dump-config", false, "print the effective options as TOML and exit")
	flag.Parse()

	opts := config.Defaults()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("pager-sim: %v", err)
		}
		opts = loaded
	}
	if *dumpConfig {
		if err := config.Write(os.Stdout, opts); err != nil {
			log.Fatalf("pager-sim: %v", err)
		}
		return
	}

	text := *script
	if *scriptFile != "" {
		data, err := os.ReadFile(*scriptFile)
		if err != nil {
			log.Fatalf("pager-sim: %v", err)
		}
		text = string(data)
	}
	steps, err := ParseScript(text)
	if err != nil {
		log.Fatalf("pager-sim: %v", err)
	}

	appItems, widgetItems := platform.DemoItems(*apps, *widgets)
	icons := preview.WithSwatches(nil, platform.ItemIDs(appItems, widgetItems))
	sim, err := NewSimulator(pager.Params{
		Options:  opts,
		Renderer: preview.NewRenderer(icons, preview.DefaultCellSize),
	}, appItems, widgetItems, os.Stdout)
	if err != nil {
		log.Fatalf("pager-sim: %v", err)
	}
	defer sim.Close()

	e := sim.Engine()
	fmt.Printf("pages: %d (visual slots %d), circular=%v\n", e.PageCount(), e.Mapper().VisualCount(), opts.Circular)
	if err := sim.Run(steps); err != nil {
		log.Printf("pager-sim: %v", err)
		sim.Close()
		os.Exit(1)
	}
}
