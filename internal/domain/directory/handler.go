package directory

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adarshprakasan/Hospiq/internal/platform/auth"
	"github.com/adarshprakasan/Hospiq/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts directory endpoints. Browsing hospitals, departments
// and doctors is public so patients can find a doctor before logging in.
func (h *Handler) RegisterRoutes(public *echo.Group, api *echo.Group) {
	public.GET("/hospitals", h.ListHospitals)
	public.GET("/hospitals/:id", h.GetHospital)
	public.GET("/departments", h.ListDepartments)
	public.GET("/doctors", h.ListDoctors)
	public.GET("/doctors/:id", h.GetDoctor)
	public.GET("/doctors/hospital/:hospitalId", h.ListDoctorsByHospital)

	manage := api.Group("", auth.RequireRole(auth.RoleStaff, auth.RoleDoctor))
	manage.POST("/hospitals/create", h.CreateHospital)
	manage.POST("/departments/add", h.CreateDepartment)
	manage.POST("/doctors/create", h.CreateDoctor)

	staffOnly := api.Group("", auth.RequireRole(auth.RoleStaff))
	staffOnly.PUT("/hospitals/:id", h.UpdateHospital)
	staffOnly.DELETE("/hospitals/:id", h.DeleteHospital)
	staffOnly.DELETE("/departments/:id", h.DeleteDepartment)

	availability := api.Group("", auth.RequireRole(auth.RoleDoctor, auth.RoleStaff))
	availability.PUT("/doctors/:id/availability", h.UpdateAvailability)
}

// -- Hospital Handlers --

func (h *Handler) CreateHospital(c echo.Context) error {
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	hosp, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListHospitals(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var hosp Hospital
	if err := c.Bind(&hosp); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp.ID = id
	if err := h.svc.UpdateHospital(c.Request().Context(), &hosp); err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) DeleteHospital(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteHospital(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Department Handlers --

func (h *Handler) CreateDepartment(c echo.Context) error {
	var dep Department
	if err := c.Bind(&dep); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDepartment(c.Request().Context(), &dep); err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, dep)
}

func (h *Handler) ListDepartments(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.QueryParam("hospitalId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospitalId is required")
	}
	items, err := h.svc.ListDepartments(c.Request().Context(), hospitalID)
	if err != nil {
		if errors.Is(err, ErrHospitalNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteDepartment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteDepartment(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Doctor Handlers --

func (h *Handler) CreateDoctor(c echo.Context) error {
	var doc Doctor
	if err := c.Bind(&doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDoctor(c.Request().Context(), &doc); err != nil {
		switch {
		case errors.Is(err, ErrHospitalNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "hospital not found")
		case errors.Is(err, ErrDepartmentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "department not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	doc, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.QueryParam("hospitalId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "hospitalId is required")
	}
	var departmentID *uuid.UUID
	if dep := c.QueryParam("departmentId"); dep != "" {
		did, err := uuid.Parse(dep)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid departmentId")
		}
		departmentID = &did
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), hospitalID, departmentID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListDoctorsByHospital(c echo.Context) error {
	hospitalID, err := uuid.Parse(c.Param("hospitalId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hospital id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), hospitalID, nil, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateAvailability(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in struct {
		Available bool `json:"available"`
	}
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doc, err := h.svc.SetDoctorAvailability(c.Request().Context(), id, in.Available)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, doc)
}
