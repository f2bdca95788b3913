package serve

import (
	"github.com/gin-gonic/gin"
)

// HTTPServer hosts the service's HTTP API.
type HTTPServer struct {
	Router *gin.Engine
	Port   string
}

// NewHTTPServer creates a server for svc with all routes registered.
func NewHTTPServer(port string, svc *Service) *HTTPServer {
	router := gin.Default()
	RegisterRoutes(router, svc)
	return &HTTPServer{
		Router: router,
		Port:   port,
	}
}

// RegisterRoutes attaches the service's endpoints to router.
func RegisterRoutes(router *gin.Engine, svc *Service) {
	router.GET("/status", StatusHandler(svc))
	router.POST("/query", QueryHandler(svc))
	router.POST("/train", TrainHandler(svc))
	router.POST("/checkpoint/save", SaveCheckpointHandler(svc))
	router.POST("/checkpoint/load", LoadCheckpointHandler(svc))
}

// Start runs the server. It blocks until the server stops.
func (hs *HTTPServer) Start() error {
	return hs.Router.Run(":" + hs.Port)
}
