package serve

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports the served network's topology.
func StatusHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Status())
	}
}

type queryRequest struct {
	Input []float64 `json:"input" binding:"required"`
}

type queryResponse struct {
	Output []float64 `json:"output"`
}

// QueryHandler runs a forward pass over the posted input vector.
func QueryHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req queryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		output, err := s.Query(req.Input)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, queryResponse{Output: output})
	}
}

type trainRequest struct {
	Examples []Example `json:"examples" binding:"required"`
	TrainParams
}

type trainResponse struct {
	MeanCost float64 `json:"mean_cost"`
}

// TrainHandler trains the served network on the posted examples.
func TrainHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trainRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		meanCost, err := s.Train(req.Examples, req.TrainParams)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, trainResponse{MeanCost: meanCost})
	}
}

type checkpointRequest struct {
	Path string `json:"path" binding:"required"`
}

// SaveCheckpointHandler persists the served network to a file on the server.
func SaveCheckpointHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkpointRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.SaveCheckpoint(req.Path); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"saved": req.Path})
	}
}

// LoadCheckpointHandler replaces the served network from a checkpoint file.
func LoadCheckpointHandler(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkpointRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := s.LoadCheckpoint(req.Path); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"loaded": req.Path})
	}
}
