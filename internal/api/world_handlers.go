package api

import (
	"net/http"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world/tile"
	"github.com/gin-gonic/gin"
)

// ChunkPos - координаты чанка в ответах API
type ChunkPos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func chunkPositions(chunks []vec.Vec2) []ChunkPos {
	out := make([]ChunkPos, len(chunks))
	for i, c := range chunks {
		out[i] = ChunkPos{X: c.X, Y: c.Y}
	}
	return out
}

// ViewRequest - новый центр обзора в тайлах
type ViewRequest struct {
	X *float64 `json:"x" binding:"required"`
	Y *float64 `json:"y" binding:"required"`
}

// TilesQuery - прямоугольник для чтения тайлов
type TilesQuery struct {
	X     int `form:"x"`
	Y     int `form:"y"`
	W     int `form:"w"`
	H     int `form:"h"`
	Layer int `form:"layer"`
}

// ColliderJSON - распакованный коллайдер тайла
type ColliderJSON struct {
	Type     string `json:"type"` // Empty|Full|Triangle|Half|Quarter|CentredHalf
	Rotation uint8  `json:"rotation" binding:"max=3"`
	XFlip    bool   `json:"x_flip"`
	YFlip    bool   `json:"y_flip"`
	Layer    uint16 `json:"layer"`
}

// SetTileRequest - запись одного тайла
type SetTileRequest struct {
	X        int           `json:"x"`
	Y        int           `json:"y"`
	Layer    int           `json:"layer"`
	ID       uint32        `json:"id"`
	Collider *ColliderJSON `json:"collider"`
}

// BlockedQuery - точка в мировых координатах и маска слоёв коллизий
type BlockedQuery struct {
	X    float64 `form:"x"`
	Y    float64 `form:"y"`
	Mask uint32  `form:"mask,default=4294967295"`
}

// handleChunks возвращает загруженные чанки
func (rs *RestServer) handleChunks(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	chunks, err := rs.engine.Streamed(ctx)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Загруженные чанки",
		Data: gin.H{
			"chunks": chunkPositions(chunks),
			"count":  len(chunks),
		},
	})
}

// handleChunkLayers описывает слои одного чанка
func (rs *RestServer) handleChunkLayers(c *gin.Context) {
	x, ok := pathInt(c, "x")
	if !ok {
		return
	}
	y, ok := pathInt(c, "y")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	layers, err := rs.engine.ChunkLayers(ctx, vec.Vec2{X: x, Y: y})
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Слои чанка",
		Data: gin.H{
			"chunk":  ChunkPos{X: x, Y: y},
			"layers": layers,
		},
	})
}

// handleView переносит центр обзора
func (rs *RestServer) handleView(c *gin.Context) {
	var req ViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	chunks, err := rs.engine.MoveFocus(ctx, vec.Vec2Float{X: *req.X, Y: *req.Y})
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Центр обзора перенесён",
		Data: gin.H{
			"center": gin.H{"x": *req.X, "y": *req.Y},
			"chunks": chunkPositions(chunks),
		},
	})
}

// handleGetTiles возвращает матрицу id тайлов [строка][столбец]
func (rs *RestServer) handleGetTiles(c *gin.Context) {
	var q TilesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Неверные параметры: "+err.Error())
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	tiles, err := rs.engine.Tiles(ctx, q.X, q.Y, q.W, q.H, q.Layer)
	if err != nil {
		rs.fail(c, err)
		return
	}
	ids := make([][]uint32, len(tiles))
	for j, row := range tiles {
		ids[j] = make([]uint32, len(row))
		for i, t := range row {
			ids[j][i] = t.ID
		}
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Тайлы прочитаны",
		Data: gin.H{
			"x": q.X, "y": q.Y, "w": q.W, "h": q.H, "layer": q.Layer,
			"ids": ids,
		},
	})
}

// handleSetTile записывает тайл
func (rs *RestServer) handleSetTile(c *gin.Context) {
	var req SetTileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Неверный формат запроса: "+err.Error())
		return
	}
	t := tile.New(req.ID)
	if req.Collider != nil {
		typ, ok := tile.ParseColliderType(req.Collider.Type)
		if !ok {
			badRequest(c, "Неизвестный тип коллайдера "+req.Collider.Type)
			return
		}
		t.Collider = tile.Collider{
			Type:     typ,
			Rotation: tile.Rotation(req.Collider.Rotation),
			XFlip:    req.Collider.XFlip,
			YFlip:    req.Collider.YFlip,
			Layer:    req.Collider.Layer,
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()
	if err := rs.engine.SetTile(ctx, req.X, req.Y, req.Layer, t); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Тайл записан",
		Data:    req,
	})
}

// handleBodies перечисляет тела коллизий загруженных чанков
func (rs *RestServer) handleBodies(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	bodies, err := rs.engine.Bodies(ctx)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Тела коллизий",
		Data: gin.H{
			"bodies": bodies,
			"count":  len(bodies),
		},
	})
}

// handleBlocked проверяет точку на пересечение с телами коллизий
func (rs *RestServer) handleBlocked(c *gin.Context) {
	var q BlockedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "Неверные параметры: "+err.Error())
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	blocked, err := rs.engine.Blocked(ctx, vec.Vec2Float{X: q.X, Y: q.Y}, q.Mask)
	if err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Проверка точки",
		Data:    gin.H{"x": q.X, "y": q.Y, "mask": q.Mask, "blocked": blocked},
	})
}
