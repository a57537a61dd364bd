package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loipv/library-events-producer/config"
	"github.com/loipv/library-events-producer/libraryevent"
)

const (
	msgMissingID    = "Please pass the LibraryEventId"
	msgUnexpectedID = "LibraryEventId must not be set for a new event"
	msgPublishError = "Failed to publish library event"
)

// LibraryEventController serves POST and PUT /v1/libraryevent
type LibraryEventController struct {
	publisher EventPublisher
	validator *Validator
	mode      config.PublishMode
	logger    *zap.Logger
}

// NewLibraryEventController creates the controller. An empty mode means async.
func NewLibraryEventController(publisher EventPublisher, mode config.PublishMode, logger *zap.Logger) *LibraryEventController {
	if mode == "" {
		mode = config.PublishAsync
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LibraryEventController{
		publisher: publisher,
		validator: NewValidator(),
		mode:      mode,
		logger:    logger,
	}
}

// RegisterRoutes implements Controller
func (c *LibraryEventController) RegisterRoutes(r *gin.Engine) {
	v1 := r.Group("/v1")
	v1.POST("/libraryevent", c.postLibraryEvent)
	v1.PUT("/libraryevent", c.putLibraryEvent)
}

func (c *LibraryEventController) postLibraryEvent(ctx *gin.Context) {
	req, ok := c.bind(ctx)
	if !ok {
		return
	}
	if req.LibraryEventID != nil {
		ctx.String(http.StatusBadRequest, msgUnexpectedID)
		return
	}

	ev := libraryevent.NewEvent(req.toBook())
	if !c.publish(ctx, ev) {
		return
	}
	ctx.JSON(http.StatusCreated, ev)
}

func (c *LibraryEventController) putLibraryEvent(ctx *gin.Context) {
	req, ok := c.bind(ctx)
	if !ok {
		return
	}
	if req.LibraryEventID == nil {
		ctx.String(http.StatusBadRequest, msgMissingID)
		return
	}

	ev := libraryevent.UpdateEvent(*req.LibraryEventID, req.toBook())
	if !c.publish(ctx, ev) {
		return
	}
	ctx.JSON(http.StatusOK, ev)
}

// bind decodes and validates the body, answering 400 itself on failure
func (c *LibraryEventController) bind(ctx *gin.Context) (*LibraryEventRequest, bool) {
	var req LibraryEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn("library event bind failed", zap.Error(err))
		ctx.String(http.StatusBadRequest, "invalid request: "+err.Error())
		return nil, false
	}
	if err := c.validator.Validate(&req); err != nil {
		c.logger.Warn("library event validation failed", zap.Error(err))
		ctx.String(http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &req, true
}

// publish hands ev to the producer per the configured mode. Only the sync
// mode can fail the request.
func (c *LibraryEventController) publish(ctx *gin.Context, ev libraryevent.LibraryEvent) bool {
	reqCtx := ctx.Request.Context()
	switch c.mode {
	case config.PublishSync:
		report, err := c.publisher.SendSync(reqCtx, ev)
		if err != nil {
			c.logger.Error("library event publish failed",
				zap.String("event_type", string(ev.LibraryEventType)),
				zap.Error(err),
			)
			ctx.String(http.StatusInternalServerError, msgPublishError)
			return false
		}
		c.logger.Debug("library event published",
			zap.Int32("partition", report.Partition),
			zap.Int64("offset", report.Offset),
		)
	case config.PublishFireAndForget:
		c.publisher.SendFireAndForget(reqCtx, ev)
	default:
		c.publisher.SendAsync(reqCtx, ev)
	}
	return true
}
