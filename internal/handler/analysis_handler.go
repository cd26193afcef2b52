package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/edf-hull-analysis/internal/domain"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/taskqueue"
	"github.com/KasumiMercury/edf-hull-analysis/internal/infra/tsreader"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/analysis"
	"github.com/KasumiMercury/edf-hull-analysis/internal/service/taskgen"
)

type AnalyzeRequest struct {
	Eps   *float64      `json:"eps"`
	Tasks []domain.Task `json:"tasks" binding:"required"`
}

type AnalyzeResponse struct {
	*domain.AnalysisResult
	Points []domain.Point `json:"points,omitempty"`
}

type AnalysisHandler struct {
	analysisService *analysis.Service
	policy          domain.HyperperiodPolicy
}

func NewAnalysisHandler(analysisService *analysis.Service, policy domain.HyperperiodPolicy) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		policy:          policy,
	}
}

// HandleAnalyze analyzes a task set given as JSON. With ?points=true the response
// also lists every generated point.
func (h *AnalysisHandler) HandleAnalyze(c *gin.Context) {
	ctx := c.Request.Context()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "request unmarshal failed",
			slog.String("error", err.Error()),
			slog.String("path", c.Request.URL.Path),
		)
		respondBadRequest(c, err.Error())
		return
	}

	eps := tsreader.DefaultEps
	if req.Eps != nil {
		eps = *req.Eps
	}

	ts, err := domain.NewTaskSet(req.Tasks, eps, h.policy)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := h.analysisService.Analyze(ctx, ts)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "task set analyzed",
		slog.String("fingerprint", outcome.Result.Fingerprint),
		slog.Int("num_points", outcome.Result.NumPoints),
		slog.Int("num_sel", outcome.Result.NumSel),
		slog.Bool("cached", outcome.Result.Cached),
	)

	resp := AnalyzeResponse{AnalysisResult: outcome.Result}
	if c.Query("points") == "true" && outcome.Points != nil {
		resp.Points = outcome.Points.Points
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AnalysisHandler) HandleGetAnalysis(c *gin.Context) {
	result, err := h.analysisService.Lookup(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AnalysisHandler) HandleDeleteAnalysis(c *gin.Context) {
	if err := h.analysisService.Forget(c.Request.Context(), c.Param("fingerprint")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleAnalyzeSeed is the task queue target: it analyzes one random setup and
// records the row.
func (h *AnalysisHandler) HandleAnalyzeSeed(c *gin.Context) {
	ctx := c.Request.Context()

	var job taskqueue.AnalysisJob
	if err := c.ShouldBindJSON(&job); err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	if job.RunID == "" {
		job.RunID = c.GetHeader("X-Run-ID")
	}

	outcome, err := h.analysisService.AnalyzeSeed(ctx, job.RunID, job.Setup)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "seed analyzed",
		slog.String("run_id", outcome.Result.RunID),
		slog.Uint64("seed", job.Setup.Seed),
		slog.Int("num_points", outcome.Result.NumPoints),
		slog.Int("num_sel", outcome.Result.NumSel),
	)

	c.JSON(http.StatusOK, outcome.Result)
}

// HandleSweep fans a sweep plan out on the task queue.
func (h *AnalysisHandler) HandleSweep(c *gin.Context) {
	ctx := c.Request.Context()

	var plan taskgen.SweepPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	receipt, err := h.analysisService.Dispatch(ctx, plan)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, receipt)
}
