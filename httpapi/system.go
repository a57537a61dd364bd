package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loipv/library-events-producer/kafka"
)

const healthTimeout = 5 * time.Second

// SystemController serves liveness, broker health and metrics
type SystemController struct {
	health   HealthChecker
	topic    string
	gatherer prometheus.Gatherer
}

// NewSystemController creates the controller. topic is checked by
// /health/topic when the request names none.
func NewSystemController(health HealthChecker, topic string, gatherer prometheus.Gatherer) *SystemController {
	return &SystemController{health: health, topic: topic, gatherer: gatherer}
}

// RegisterRoutes implements Controller
func (c *SystemController) RegisterRoutes(r *gin.Engine) {
	r.GET("/live", c.live)
	r.GET("/health", c.check)
	r.GET("/health/brokers", c.checkBrokers)
	r.GET("/health/topic", c.checkTopic)
	if c.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})))
	}
}

func (c *SystemController) live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func (c *SystemController) check(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()
	writeHealth(ctx, c.health.Check(reqCtx))
}

func (c *SystemController) checkBrokers(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()
	writeHealth(ctx, c.health.CheckBrokers(reqCtx))
}

func (c *SystemController) checkTopic(ctx *gin.Context) {
	topic := ctx.DefaultQuery("topic", c.topic)
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()
	writeHealth(ctx, c.health.CheckTopic(reqCtx, topic))
}

func writeHealth(ctx *gin.Context, result *kafka.HealthResult) {
	status := http.StatusOK
	if result.Status != kafka.HealthStatusUp {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, result)
}
