package recommendation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/service/auth"
	"github.com/medibook/booking-api/internal/service/recommendation"
	apperrors "github.com/medibook/booking-api/pkg/errors"
	"github.com/medibook/booking-api/pkg/httputil"
)

// Handler exposes the AI triage endpoints. The recommendation service is
// nil when no model credential was configured at startup; every endpoint
// then answers 503 so callers can tell the feature apart from an empty
// recommendation.
type Handler struct {
	recommendations *recommendation.Service
	authService     *auth.Service
}

func NewHandler(recommendations *recommendation.Service, authService *auth.Service) *Handler {
	return &Handler{recommendations: recommendations, authService: authService}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	ai := r.Group("/ai")
	{
		ai.POST("/recommendations", h.Recommend)
		ai.POST("/parse", h.ParseQuery)
	}
}

func (h *Handler) Recommend(c *gin.Context) {
	if h.recommendations == nil {
		httputil.RespondWithError(c, apperrors.MissingCredential("GEMINI_API_KEY"))
		return
	}

	var req model.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewBindErrorResponse(err))
		return
	}

	patient, ok := h.currentUser(c)
	if !ok {
		return
	}

	rec, err := h.recommendations.RecommendSlot(c.Request.Context(), patient, req.Speciality, req.Urgency, req.Constraints)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(rec))
}

func (h *Handler) ParseQuery(c *gin.Context) {
	if h.recommendations == nil {
		httputil.RespondWithError(c, apperrors.MissingCredential("GEMINI_API_KEY"))
		return
	}

	var req model.ParseQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewBindErrorResponse(err))
		return
	}

	hints, err := h.recommendations.ParseNaturalQuery(c.Request.Context(), req.Text)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(hints))
}

func (h *Handler) currentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return nil, false
	}
	user, err := h.authService.GetUser(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return nil, false
	}
	return user, true
}
