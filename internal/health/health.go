package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// AnalysisServiceName is the name reported on the gRPC health endpoint.
const AnalysisServiceName = "edf.analysis.v1.AnalysisService"

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Checker reports readiness of the analysis server. The cache is optional:
// a nil client is reported as disabled rather than unhealthy.
type Checker struct {
	redisClient *redis.Client
	version     string
	timeout     time.Duration
	grpc        *grpchealth.StaticChecker
}

func NewChecker(redisClient *redis.Client, version string) *Checker {
	return &Checker{
		redisClient: redisClient,
		version:     version,
		timeout:     5 * time.Second,
		grpc:        grpchealth.NewStaticChecker(AnalysisServiceName),
	}
}

func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.redisClient == nil {
		status.Checks["cache"] = CheckResult{Status: StatusHealthy, Error: "disabled"}
		return status
	}

	start := time.Now()
	if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
		status.Status = StatusUnhealthy
		status.Checks["cache"] = CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	} else {
		status.Checks["cache"] = CheckResult{
			Status:    StatusHealthy,
			LatencyMs: time.Since(start).Milliseconds(),
		}
	}

	return status
}

// SetServing flips the gRPC health status, e.g. to NOT_SERVING while draining.
func (c *Checker) SetServing(serving bool) {
	status := grpchealth.StatusNotServing
	if serving {
		status = grpchealth.StatusServing
	}
	c.grpc.SetStatus(AnalysisServiceName, status)
	c.grpc.SetStatus("", status)
}

// GRPCHandler returns the path and handler of the grpc.health.v1 service.
func (c *Checker) GRPCHandler() (string, http.Handler) {
	return grpchealth.NewHandler(c.grpc)
}

func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}
