package queue

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshprakasan/Hospiq/internal/domain/directory"
	"github.com/adarshprakasan/Hospiq/internal/domain/roster"
	"github.com/adarshprakasan/Hospiq/internal/platform/auth"
	"github.com/adarshprakasan/Hospiq/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	patient := api.Group("", auth.RequireRole(auth.RolePatient))
	patient.POST("/tokens/book", h.Book)
	patient.GET("/tokens/mine", h.ListMine)
	patient.DELETE("/tokens/:tokenId", h.Cancel)

	staff := api.Group("", auth.RequireRole(auth.RoleStaff))
	staff.POST("/tokens/offline", h.BookOffline)

	desk := api.Group("", auth.RequireRole(auth.RoleStaff, auth.RoleDoctor))
	desk.GET("/tokens/my", h.ListMy)
	desk.GET("/tokens/doctor/:doctorId", h.ListForDoctor)
	desk.PUT("/tokens/:tokenId/status", h.UpdateStatus)
	desk.PATCH("/tokens/:tokenId/complete", h.Complete)
}

func (h *Handler) Book(c echo.Context) error {
	var in struct {
		DoctorID     uuid.UUID  `json:"doctor_id"`
		DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	patientID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
	}

	t, err := h.svc.Book(ctx, patientID, in.DoctorID, in.DepartmentID)
	if err != nil {
		return bookingError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) BookOffline(c echo.Context) error {
	var in struct {
		DoctorID     uuid.UUID  `json:"doctor_id"`
		HospitalID   uuid.UUID  `json:"hospital_id"`
		PatientName  string     `json:"patient_name"`
		DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.svc.BookOffline(c.Request().Context(), in.DoctorID, in.HospitalID, in.PatientName, in.DepartmentID)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	tokenID, err := uuid.Parse(c.Param("tokenId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid token id")
	}
	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	t, err := h.svc.UpdateStatus(c.Request().Context(), tokenID, in.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		case errors.Is(err, ErrTokenNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "token not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Complete(c echo.Context) error {
	tokenID, err := uuid.Parse(c.Param("tokenId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid token id")
	}
	t, err := h.svc.Complete(c.Request().Context(), tokenID)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "token not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Cancel(c echo.Context) error {
	tokenID, err := uuid.Parse(c.Param("tokenId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid token id")
	}
	ctx := c.Request().Context()
	patientID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
	}

	t, err := h.svc.Cancel(ctx, tokenID, patientID)
	if err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "token not found")
		case errors.Is(err, ErrNotTokenOwner):
			return echo.NewHTTPError(http.StatusForbidden, "not your token")
		case errors.Is(err, ErrTokenFinished):
			return echo.NewHTTPError(http.StatusBadRequest, "token already finished")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

// ListMy returns today's queue for the caller: doctors see their own
// tokens, staff see every token in their hospital.
func (h *Handler) ListMy(c echo.Context) error {
	ctx := c.Request().Context()
	role := auth.RoleFromContext(ctx)

	if role == auth.RoleDoctor {
		userID, err := uuid.Parse(auth.UserIDFromContext(ctx))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
		}
		items, err := h.svc.ListForDoctorUser(ctx, userID)
		if err != nil {
			if errors.Is(err, directory.ErrDoctorNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "no doctor record for this account")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, items)
	}

	hospitalID, err := uuid.Parse(auth.HospitalIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "account has no hospital")
	}
	items, err := h.svc.ListForHospital(ctx, hospitalID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor id")
	}
	items, err := h.svc.ListForDoctor(c.Request().Context(), doctorID)
	if err != nil {
		if errors.Is(err, directory.ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	patientID, err := uuid.Parse(auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListForPatient(ctx, patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func bookingError(err error) error {
	switch {
	case errors.Is(err, directory.ErrDoctorNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	case errors.Is(err, roster.ErrScheduleNotSet):
		return echo.NewHTTPError(http.StatusBadRequest, "doctor schedule not set")
	case errors.Is(err, ErrDoctorUnavailableToday):
		return echo.NewHTTPError(http.StatusBadRequest, "doctor is not available today")
	case errors.Is(err, ErrOutsideWorkingHours):
		return echo.NewHTTPError(http.StatusBadRequest, "doctor is not available at this time")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
