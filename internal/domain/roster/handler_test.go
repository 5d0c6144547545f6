package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshprakasan/Hospiq/internal/platform/auth"
)

func weekJSON(doctorID string) string {
	body := `{"days":[
		{"day":"Sunday","is_available":false},
		{"day":"Monday","start_time":"09:00","end_time":"17:00","is_available":true},
		{"day":"Tuesday","start_time":"09:00","end_time":"17:00","is_available":true},
		{"day":"Wednesday","start_time":"09:00","end_time":"13:00","is_available":true},
		{"day":"Thursday","start_time":"09:00","end_time":"17:00","is_available":true},
		{"day":"Friday","start_time":"09:00","end_time":"17:00","is_available":true},
		{"day":"Saturday","is_available":false}]`
	if doctorID != "" {
		body += fmt.Sprintf(`,"doctor_id":%q`, doctorID)
	}
	return body + "}"
}

func authedRequest(e *echo.Echo, method, path, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx := req.Context()
	ctx = context.WithValue(ctx, auth.UserIDKey, userID)
	ctx = context.WithValue(ctx, auth.UserRoleKey, role)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandlerSetSchedule_AsDoctor(t *testing.T) {
	dir := newMockDoctorDirectory()
	doc := dir.add()
	userID := uuid.New()
	doc.UserID = &userID
	svc := NewService(newMockScheduleRepo(), dir)
	h := NewHandler(svc, dir)
	e := echo.New()

	c, rec := authedRequest(e, http.MethodPut, "/schedules", weekJSON(""), userID.String(), auth.RoleDoctor)
	if err := h.SetSchedule(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var w WeeklySchedule
	if err := json.Unmarshal(rec.Body.Bytes(), &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.DoctorID != doc.ID {
		t.Errorf("doctor id = %s, want %s", w.DoctorID, doc.ID)
	}
}

func TestHandlerSetSchedule_AsStaffNeedsDoctorID(t *testing.T) {
	dir := newMockDoctorDirectory()
	svc := NewService(newMockScheduleRepo(), dir)
	h := NewHandler(svc, dir)
	e := echo.New()

	c, _ := authedRequest(e, http.MethodPut, "/schedules", weekJSON(""), uuid.NewString(), auth.RoleStaff)
	err := h.SetSchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandlerSetSchedule_AsStaff(t *testing.T) {
	dir := newMockDoctorDirectory()
	doc := dir.add()
	svc := NewService(newMockScheduleRepo(), dir)
	h := NewHandler(svc, dir)
	e := echo.New()

	c, rec := authedRequest(e, http.MethodPut, "/schedules", weekJSON(doc.ID.String()), uuid.NewString(), auth.RoleStaff)
	if err := h.SetSchedule(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestHandlerSetSchedule_DoctorWithoutRecord(t *testing.T) {
	dir := newMockDoctorDirectory()
	svc := NewService(newMockScheduleRepo(), dir)
	h := NewHandler(svc, dir)
	e := echo.New()

	c, _ := authedRequest(e, http.MethodPut, "/schedules", weekJSON(""), uuid.NewString(), auth.RoleDoctor)
	err := h.SetSchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestHandlerGetSchedule_NotSet(t *testing.T) {
	dir := newMockDoctorDirectory()
	svc := NewService(newMockScheduleRepo(), dir)
	h := NewHandler(svc, dir)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("doctorId")
	c.SetParamValues(uuid.NewString())

	err := h.GetSchedule(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
