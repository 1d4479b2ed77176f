package controllers

import (
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	feedsvc "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/feed"
	ingestsvc "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/implementation/ingest"
	"gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.ApiService/middleware"
	logger "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Logger"
	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
	api_models "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models/api"
)

// SensorController handles reading ingestion, the snapshot query and the
// live event stream
type SensorController struct {
	ingestService  *ingestsvc.Service
	feed           *feedsvc.Feed
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewSensorController creates a new sensor controller
func NewSensorController(ingestService *ingestsvc.Service, feed *feedsvc.Feed, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *SensorController {
	return &SensorController{
		ingestService:  ingestService,
		feed:           feed,
		logger:         logger.WithComponent("sensor"),
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the sensor routes with Gin
func (c *SensorController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.POST("/sensor-data", c.authMiddleware.RequireToken(), c.Ingest)
		api.GET("/sensor-data", c.Snapshot)
	}

	router.GET("/stream", c.Stream)
}

// Ingest accepts one reading from an authorized device
func (c *SensorController) Ingest(ctx *gin.Context) {
	var req api_models.SensorDataRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		// No storage write happens for an unparseable payload
		ctx.JSON(http.StatusBadRequest, api_models.IngestResponse{
			Status:  "error",
			Command: api_models.CommandNone,
			Message: "invalid request body",
		})
		return
	}

	if identity, ok := middleware.GetIdentityFromGinContext(ctx); ok {
		c.logger.WithField("device", identity).Debug("Reading received")
	}

	resp, err := c.ingestService.Ingest(ctx.Request.Context(), req)
	if err != nil {
		ctx.JSON(statusFor(err), api_models.IngestResponse{
			Status:  "error",
			Command: api_models.CommandNone,
			Message: publicMessage(err),
		})
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Snapshot returns the bounded recent window as a single response for
// clients that cannot hold a long-lived connection
func (c *SensorController) Snapshot(ctx *gin.Context) {
	readings, err := c.feed.Snapshot(ctx.Request.Context())
	if err != nil {
		c.logger.ErrorWithError(err, "Snapshot query failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "internal error"})
		return
	}

	ctx.JSON(http.StatusOK, readings)
}

// Stream holds the viewer connection open and pushes a batch event whenever
// the feed loop detects newly persisted readings
func (c *SensorController) Stream(ctx *gin.Context) {
	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Flush()

	sink := &sseSink{writer: ctx.Writer}
	if err := c.feed.Run(ctx.Request.Context(), sink); err != nil {
		// Disconnects land here; the loop already released its resources.
		c.logger.WithError(err).Debug("Stream closed")
	}
}

// sseSink adapts the gin response writer to the feed sink
type sseSink struct {
	writer gin.ResponseWriter
}

func (s *sseSink) Push(batch []fldmodels.FeedReading) error {
	if err := sse.Encode(s.writer, sse.Event{Data: batch}); err != nil {
		return err
	}
	s.writer.Flush()
	return nil
}
