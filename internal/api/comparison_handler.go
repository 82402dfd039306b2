package api

import (
	"net/http"
	"strconv"

	"fscompare/adapters/classifier"
	"fscompare/app"
	"fscompare/domain/core"
	"fscompare/domain/featureset"
	"fscompare/internal"
	apperrors "fscompare/internal/errors"
	"fscompare/ports"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ComparisonHandler serves the comparison JSON API
type ComparisonHandler struct {
	service  *app.ComparisonService
	defaults app.ComparisonRequest
	validate *validator.Validate
	logger   *internal.Logger
}

// NewComparisonHandler creates a handler. Fields omitted from a request body
// fall back to defaults.
func NewComparisonHandler(service *app.ComparisonService, defaults app.ComparisonRequest) *ComparisonHandler {
	return &ComparisonHandler{
		service:  service,
		defaults: defaults,
		validate: validator.New(),
		logger:   internal.NewDefaultLogger().WithComponent("api"),
	}
}

// RegisterRoutes mounts the API under /api/v1
func (h *ComparisonHandler) RegisterRoutes(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.POST("/comparisons", h.CreateComparison)
	v1.GET("/comparisons", h.ListComparisons)
	v1.GET("/comparisons/:id", h.GetComparison)
	v1.GET("/feature-sets", h.ListFeatureSets)
	v1.GET("/classifiers", h.ListClassifiers)
}

// comparisonBody is the POST body; zero values take the configured defaults.
type comparisonBody struct {
	Dataset     string             `json:"dataset"`
	FeatureSets []string           `json:"feature_sets"`
	Classifier  string             `json:"classifier"`
	LossName    string             `json:"loss_name"`
	Params      map[string]float64 `json:"params"`
	NumRepeats  int                `json:"num_repeats"`
	Seed        *int64             `json:"seed"`
	Parallelism int                `json:"parallelism"`
}

func (h *ComparisonHandler) requestFrom(body comparisonBody) app.ComparisonRequest {
	req := h.defaults
	if body.Dataset != "" {
		req.Dataset = body.Dataset
	}
	if len(body.FeatureSets) > 0 {
		req.FeatureSets = body.FeatureSets
	}
	if body.Classifier != "" {
		req.Classifier = ports.ClassifierSpec{Name: body.Classifier, LossName: req.Classifier.LossName}
	}
	if body.LossName != "" {
		req.Classifier.LossName = body.LossName
	}
	if body.Params != nil {
		req.Classifier.Params = body.Params
	}
	if body.NumRepeats > 0 {
		req.NumRepeats = body.NumRepeats
	}
	if body.Seed != nil {
		req.Seed = *body.Seed
	}
	if body.Parallelism > 0 {
		req.Parallelism = body.Parallelism
	}
	return req
}

// CreateComparison runs a comparison synchronously and returns its report
func (h *ComparisonHandler) CreateComparison(c *gin.Context) {
	var body comparisonBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	req := h.requestFrom(body)
	if err := h.validate.Struct(req); err != nil {
		h.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	if err := classifier.ValidateSpec(req.Classifier); err != nil {
		h.respondError(c, err)
		return
	}

	report, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// GetComparison returns one stored report
func (h *ComparisonHandler) GetComparison(c *gin.Context) {
	id, err := core.ParseComparisonID(c.Param("id"))
	if err != nil {
		h.respondError(c, apperrors.InvalidInput(err.Error()))
		return
	}
	report, err := h.service.GetComparison(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ListComparisons returns stored reports, newest first
func (h *ComparisonHandler) ListComparisons(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		h.respondError(c, apperrors.InvalidInput("limit must be between 1 and 500"))
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		h.respondError(c, apperrors.InvalidInput("offset must be a non-negative integer"))
		return
	}

	reports, err := h.service.ListComparisons(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comparisons": reports, "count": len(reports)})
}

// ListFeatureSets resolves feature sets against a dataset (?dataset=, ?names=a,b)
func (h *ComparisonHandler) ListFeatureSets(c *gin.Context) {
	selector := c.DefaultQuery("dataset", h.defaults.Dataset)
	names := featureset.SplitTagList(c.Query("names"))

	sets, err := h.service.DescribeFeatureSets(c.Request.Context(), selector, names)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset":      selector,
		"feature_sets": sets,
		"canonical":    h.service.CanonicalNames(),
	})
}

// ListClassifiers lists the built-in classifiers and loss metrics
func (h *ComparisonHandler) ListClassifiers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"classifiers":  classifier.Names(),
		"loss_metrics": classifier.LossNames,
	})
}

// respondError hides the details of internal errors from the client; they
// are logged instead.
func (h *ComparisonHandler) respondError(c *gin.Context, err error) {
	code, status := apperrors.GetCode(err), apperrors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}
	c.JSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}
