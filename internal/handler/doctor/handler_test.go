package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/booking-api/internal/handler"
	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository/memory"
	appointmentService "github.com/medibook/booking-api/internal/service/appointment"
)

func newTestRouter(t *testing.T) (*gin.Engine, *appointmentService.Service, *model.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	svc := appointmentService.NewService(
		memory.NewDoctorRepository(),
		memory.NewSlotRepository(),
		memory.NewAppointmentRepository(),
		nil,
		nil,
	)

	doctor := &model.User{
		ID:   uuid.New(),
		Name: "Dr. Rao",
		Role: model.RoleDoctor,
		Doctor: &model.DoctorProfile{
			Speciality:       "Cardiologist",
			Location:         "Hyderabad",
			ConsultationMode: "In-person",
		},
	}
	require.NoError(t, svc.AddDoctor(ctx, doctor))

	now := time.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	require.NoError(t, svc.AddSlot(ctx, &model.TimeSlot{
		ID:        uuid.New(),
		DoctorID:  doctor.ID,
		Date:      day,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
	}))

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, svc, doctor
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, handler.Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestListDoctorsEndpoint(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w, resp := get(t, r, "/api/v1/doctors")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]interface{}), 1)

	w, resp = get(t, r, "/api/v1/doctors?speciality=cardiologist")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]interface{}), 1)

	w, resp = get(t, r, "/api/v1/doctors?q=rao")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]interface{}), 1)

	w, resp = get(t, r, "/api/v1/doctors?speciality=dermatology")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data)
}

func TestGetDoctorEndpoint(t *testing.T) {
	r, _, doctor := newTestRouter(t)

	w, resp := get(t, r, "/api/v1/doctors/"+doctor.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Dr. Rao", data["name"])

	w, _ = get(t, r, "/api/v1/doctors/"+uuid.New().String())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = get(t, r, "/api/v1/doctors/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDoctorSlotsEndpoint(t *testing.T) {
	r, _, doctor := newTestRouter(t)

	w, resp := get(t, r, fmt.Sprintf("/api/v1/doctors/%s/slots", doctor.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]interface{}), 1)

	today := time.Now().Format("2006-01-02")
	w, resp = get(t, r, fmt.Sprintf("/api/v1/doctors/%s/slots?date=%s", doctor.ID, today))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data.([]interface{}), 1)

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w, resp = get(t, r, fmt.Sprintf("/api/v1/doctors/%s/slots?date=%s", doctor.ID, tomorrow))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, resp.Data)

	w, _ = get(t, r, fmt.Sprintf("/api/v1/doctors/%s/slots?date=13-01-2026", doctor.ID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
