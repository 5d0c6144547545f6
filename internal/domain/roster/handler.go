package roster

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshprakasan/Hospiq/internal/domain/directory"
	"github.com/adarshprakasan/Hospiq/internal/platform/auth"
)

type Handler struct {
	svc     *Service
	doctors DoctorDirectory
}

func NewHandler(svc *Service, doctors DoctorDirectory) *Handler {
	return &Handler{svc: svc, doctors: doctors}
}

// RegisterRoutes mounts schedule endpoints. Reading a doctor's week is
// public so patients can see working hours before booking.
func (h *Handler) RegisterRoutes(public *echo.Group, api *echo.Group) {
	public.GET("/schedule/:doctorId", h.GetSchedule)
	public.GET("/schedule/doctor/:doctorId", h.GetSchedule)

	write := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff))
	write.POST("/schedule/set", h.SetSchedule)
}

type setScheduleInput struct {
	DoctorID *uuid.UUID    `json:"doctor_id,omitempty"`
	Days     []DaySchedule `json:"days"`
}

// SetSchedule stores a full week. Doctors set their own schedule; staff
// and admins must name the doctor in the body.
func (h *Handler) SetSchedule(c echo.Context) error {
	var in setScheduleInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	var doctorID uuid.UUID
	if auth.RoleFromContext(ctx) == auth.RoleDoctor {
		uid, err := uuid.Parse(auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
		}
		doc, err := h.doctors.GetDoctorByUserID(ctx, uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "no doctor record for this account")
		}
		doctorID = doc.ID
	} else {
		if in.DoctorID == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
		}
		doctorID = *in.DoctorID
	}

	w, err := h.svc.SetWeekly(ctx, doctorID, in.Days)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}

func (h *Handler) GetSchedule(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	w, err := h.svc.GetWeekly(c.Request().Context(), doctorID)
	if err != nil {
		if errors.Is(err, ErrScheduleNotSet) {
			return echo.NewHTTPError(http.StatusNotFound, "no schedule found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, w)
}
