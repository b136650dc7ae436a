// Package api - отладочный REST API поверх движка мира.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/annel0/tileworld/internal/engine"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RequestTimeout - сколько запрос ждёт ответа от цикла движка
const RequestTimeout = 5 * time.Second

// RestServer представляет REST API сервер
type RestServer struct {
	router *gin.Engine
	server *http.Server
	engine *engine.Engine
	stats  *ProcessStats
	log    *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr        string // адрес для запуска сервера, например ":8088"
	ServiceName string // имя сервиса для otelgin и префикс HTTP-метрик
	Engine      *engine.Engine
	Registerer  prometheus.Registerer // nil - prometheus.DefaultRegisterer
	Gatherer    prometheus.Gatherer   // nil - prometheus.DefaultGatherer
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Addr == "" {
		config.Addr = ":8088"
	}
	if config.ServiceName == "" {
		config.ServiceName = "tileworld"
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.ServiceName))
	router.Use(middleware.NewRequestLogger().Handler())

	promMw := middleware.NewPrometheusMiddleware(config.ServiceName+"_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	rs := &RestServer{
		router: router,
		engine: config.Engine,
		stats:  NewProcessStats(),
		log:    logging.GetServerLogger(),
	}
	rs.server = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	rs.setupRoutes()
	return rs
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")
	{
		api.GET("/chunks", rs.handleChunks)
		api.GET("/chunks/:x/:y/layers", rs.handleChunkLayers)
		api.POST("/view", rs.handleView)
		api.GET("/tiles", rs.handleGetTiles)
		api.PUT("/tiles", rs.handleSetTile)
		api.GET("/collision", rs.handleBodies)
		api.GET("/collision/blocked", rs.handleBlocked)
	}
}

// Handler возвращает HTTP-обработчик сервера (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает REST сервер и блокируется до Shutdown
func (rs *RestServer) Start() error {
	rs.log.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown дожидается завершения активных запросов
func (rs *RestServer) Shutdown(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if rs.engine == nil || rs.engine.Stopped() {
		status, code = "engine stopped", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  status,
		"time":    time.Now().Unix(),
		"process": rs.stats.Snapshot(),
	})
}

// requestContext ограничивает ожидание ответа от движка
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), RequestTimeout)
}

// fail переводит ошибку движка в HTTP-ответ
func (rs *RestServer) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, engine.ErrStopped):
		code = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	_ = c.Error(err)
	c.JSON(code, GenericResponse{Success: false, Message: err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: msg})
}

// pathInt читает целый параметр пути
func pathInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "параметр "+name+" должен быть целым числом")
		return 0, false
	}
	return v, true
}
