package main

import (
	"fmt"
	"net/http"
	"strings"
)

type chunkPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// showChunks выводит загруженные чанки
func showChunks(c *client) error {
	var data struct {
		Chunks []chunkPos `json:"chunks"`
		Count  int        `json:"count"`
	}
	if err := c.call(http.MethodGet, "/api/chunks", nil, &data); err != nil {
		return err
	}
	fmt.Printf("📦 Streamed chunks: %d\n", data.Count)
	printChunks(data.Chunks)
	return nil
}

// moveView переносит центр обзора
func moveView(c *client, x, y float64) error {
	var data struct {
		Chunks []chunkPos `json:"chunks"`
	}
	if err := c.call(http.MethodPost, "/api/view", map[string]float64{"x": x, "y": y}, &data); err != nil {
		return err
	}
	fmt.Printf("🎯 View centre: (%.1f, %.1f)\n", x, y)
	printChunks(data.Chunks)
	return nil
}

func printChunks(chunks []chunkPos) {
	row := 0
	for i, ch := range chunks {
		if i > 0 && ch.Y != row {
			fmt.Println()
		}
		row = ch.Y
		fmt.Printf("  (%d,%d)", ch.X, ch.Y)
	}
	fmt.Println()
}

// showTiles печатает прямоугольник id тайлов
func showTiles(c *client, x, y, w, h, layer int) error {
	var data struct {
		IDs [][]uint32 `json:"ids"`
	}
	path := fmt.Sprintf("/api/tiles?x=%d&y=%d&w=%d&h=%d&layer=%d", x, y, w, h, layer)
	if err := c.call(http.MethodGet, path, nil, &data); err != nil {
		return err
	}
	fmt.Printf("🗺️  Layer %d, (%d,%d) %dx%d\n", layer, x, y, w, h)
	for _, row := range data.IDs {
		cells := make([]string, len(row))
		for i, id := range row {
			if id == 0 {
				cells[i] = " ."
				continue
			}
			cells[i] = fmt.Sprintf("%2d", id)
		}
		fmt.Println(strings.Join(cells, " "))
	}
	return nil
}

// setTile записывает тайл
func setTile(c *client, x, y, layer int, id uint32, collider string) error {
	req := map[string]interface{}{"x": x, "y": y, "layer": layer, "id": id}
	if collider != "" {
		req["collider"] = map[string]interface{}{"type": collider}
	}
	if err := c.call(http.MethodPut, "/api/tiles", req, nil); err != nil {
		return err
	}
	fmt.Printf("✅ Tile (%d,%d) layer %d = %d\n", x, y, layer, id)
	return nil
}

// showLayers выводит слои чанка
func showLayers(c *client, x, y int) error {
	var data struct {
		Layers []struct {
			Index     int     `json:"index"`
			Height    float64 `json:"height"`
			LiveTiles int     `json:"live_tiles"`
		} `json:"layers"`
	}
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/chunks/%d/%d/layers", x, y), nil, &data); err != nil {
		return err
	}
	fmt.Printf("📚 Chunk (%d,%d)\n", x, y)
	for _, l := range data.Layers {
		fmt.Printf("  layer %d: height %.1f, live tiles %d\n", l.Index, l.Height, l.LiveTiles)
	}
	return nil
}

// showBodies выводит тела коллизий
func showBodies(c *client) error {
	var data struct {
		Bodies []struct {
			Chunk         chunkPos `json:"chunk"`
			Layer         uint16   `json:"layer"`
			Boxes         int      `json:"boxes"`
			Polygons      int      `json:"polygons"`
			CollisionMask uint32   `json:"collision_mask"`
		} `json:"bodies"`
		Count int `json:"count"`
	}
	if err := c.call(http.MethodGet, "/api/collision", nil, &data); err != nil {
		return err
	}
	fmt.Printf("🧱 Collision bodies: %d\n", data.Count)
	for _, b := range data.Bodies {
		fmt.Printf("  chunk (%d,%d) layer %d: %d boxes, %d polygons, mask %#x\n",
			b.Chunk.X, b.Chunk.Y, b.Layer, b.Boxes, b.Polygons, b.CollisionMask)
	}
	return nil
}

// showBlocked проверяет точку
func showBlocked(c *client, x, y float64, mask uint32) error {
	var data struct {
		Blocked bool `json:"blocked"`
	}
	path := fmt.Sprintf("/api/collision/blocked?x=%g&y=%g&mask=%d", x, y, mask)
	if err := c.call(http.MethodGet, path, nil, &data); err != nil {
		return err
	}
	fmt.Printf("(%g, %g) blocked: %v\n", x, y, data.Blocked)
	return nil
}
