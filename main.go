package main

import (
	"context"
	"flag"
	"log"
	"os"
)

func main() {
	var (
		scriptPath = flag.String("script", "", "volume script to evaluate")
		tileSize   = flag.Float64("tile-size", 16, "navmesh tile edge length in world units")
		areasPath  = flag.String("areas", "", "area catalog YAML file")
		resolution = flag.Int("resolution", 0, "preview mesh resolution (marching cubes cells)")
	)
	flag.Parse()

	app, err := NewAppWithConfig(Config{
		TileSize:   *tileSize,
		AreasPath:  *areasPath,
		Resolution: *resolution,
	})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app.Start(ctx)
	defer app.Stop()

	if *scriptPath == "" {
		log.Println("no -script given; nothing to do")
		return
	}

	source, err := os.ReadFile(*scriptPath)
	if err != nil {
		log.Fatalf("read script: %v", err)
	}

	result := app.RunScript(string(source))
	for _, e := range result.Errors {
		if e.Line > 0 {
			log.Printf("script error: line %d: %s", e.Line, e.Message)
		} else {
			log.Printf("script error: %s", e.Message)
		}
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}

	log.Printf("committed %d volumes touching %d tiles", result.Applied, result.Tiles)
	for _, v := range app.Volumes() {
		log.Printf("  %s", v.Label)
	}
	app.Tick()
}
