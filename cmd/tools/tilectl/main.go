package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

const defaultServerAddr = "http://localhost:8088"

func main() {
	var (
		serverAddr = flag.String("server", defaultServerAddr, "REST API address")
		command    = flag.String("cmd", "chunks", "Command: chunks, view, tiles, set, layers, bodies, blocked")
		x          = flag.Float64("x", 0, "X (tiles or chunk)")
		y          = flag.Float64("y", 0, "Y (tiles or chunk)")
		w          = flag.Int("w", 32, "Width for tiles")
		h          = flag.Int("h", 16, "Height for tiles")
		layer      = flag.Int("layer", 0, "Map layer")
		id         = flag.Uint("id", 0, "Tile id for set")
		collider   = flag.String("collider", "", "Collider type for set (Full, Half, ...)")
		mask       = flag.Uint("mask", 0xFFFFFFFF, "Collision layer mask for blocked")
		timeout    = flag.Duration("timeout", 5*time.Second, "Request timeout")
	)
	flag.Parse()

	c := &client{base: *serverAddr, http: &http.Client{Timeout: *timeout}}

	var err error
	switch *command {
	case "chunks":
		err = showChunks(c)
	case "view":
		err = moveView(c, *x, *y)
	case "tiles":
		err = showTiles(c, int(*x), int(*y), *w, *h, *layer)
	case "set":
		err = setTile(c, int(*x), int(*y), *layer, uint32(*id), *collider)
	case "layers":
		err = showLayers(c, int(*x), int(*y))
	case "bodies":
		err = showBodies(c)
	case "blocked":
		err = showBlocked(c, *x, *y, uint32(*mask))
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: chunks, view, tiles, set, layers, bodies, blocked")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}
