package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medibook/booking-api/internal/app"
	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/middleware"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/pkg/httputil"
)

// Handler serves the booking operations. The acting patient always comes
// from the authenticated token subject, never from the request body.
type Handler struct {
	ctrl *app.Controller
}

func NewHandler(ctrl *app.Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.Book)
		appointments.GET("", h.ListMine)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/complete", h.Complete)
	}
}

func (h *Handler) Book(c *gin.Context) {
	var req model.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewBindErrorResponse(err))
		return
	}

	patientID, ok := currentUserID(c)
	if !ok {
		return
	}

	doctorID, _ := uuid.Parse(req.DoctorID)
	slotID, _ := uuid.Parse(req.SlotID)

	apt, err := h.ctrl.BookAppointment(c.Request.Context(), patientID, doctorID, slotID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListMine(c *gin.Context) {
	patientID, ok := currentUserID(c)
	if !ok {
		return
	}

	appointments, err := h.ctrl.ListPatientAppointments(c.Request.Context(), patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) Cancel(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	patientID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.ctrl.CancelAppointment(c.Request.Context(), patientID, appointmentID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("appointment cancelled"))
}

func (h *Handler) Complete(c *gin.Context) {
	appointmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.ctrl.Appointments().Complete(c.Request.Context(), appointmentID); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("appointment completed"))
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not authenticated"))
		return uuid.Nil, false
	}
	return id, true
}
