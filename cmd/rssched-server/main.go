// Command rssched-server exposes the solver over HTTP: GET /health for
// liveness, POST /solve taking an instance document and returning the solve
// result. Listens on 0.0.0.0:<port>, default 3000, overridden by the first
// command-line argument.
package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/katalvlaran/rssched/solver"
	"github.com/katalvlaran/rssched/transport"
)

const defaultPort = "3000"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	port := defaultPort
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	router := newRouter(logger)
	logger.Info("listening", zap.String("addr", "0.0.0.0:"+port))
	if err := router.Run("0.0.0.0:" + port); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

// newRouter builds the gin engine with the service's full route surface.
func newRouter(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})

	router.POST("/solve", func(c *gin.Context) {
		var in transport.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := solver.Solve(c.Request.Context(), logger, in)
		if err != nil {
			logger.Error("solve failed", zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result.Output)
	})

	router.NoRoute(func(c *gin.Context) {
		c.String(http.StatusNotFound, "No route! Use /health or /solve.")
	})

	return router
}
