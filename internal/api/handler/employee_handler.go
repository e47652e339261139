package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
	"github.com/ddfinv/backoffice/internal/core/service"
)

// EmployeeHandler handles HTTP requests for employee profiles.
type EmployeeHandler struct {
	employees ports.EmployeeService
	guard     *service.Guard
}

func NewEmployeeHandler(employees ports.EmployeeService, guard *service.Guard) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, guard: guard}
}

type createEmployeeRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Location  string `json:"location" validate:"required,alpha,uppercase"`
	Title     string `json:"title"`
}

type updateEmployeeRequest struct {
	Location *string `json:"location" validate:"omitempty,alpha,uppercase"`
	Title    *string `json:"title"`
}

// Create attaches an employee profile to an existing account. Admin only.
//
// @Summary      Create an employee profile
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      201   {object}  domain.Employee
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.RequireAdmin(caller); err != nil {
		return err
	}

	var req createEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	employee, err := h.employees.Create(c.Request().Context(), ports.CreateEmployeeInput{
		AccountID: req.AccountID,
		Location:  req.Location,
		Title:     req.Title,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, employee)
}

// Get returns an employee profile by business id.
//
// @Summary      Get an employee by business id
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  path      string  true  "Employee business id (e.g. NYC7)"
// @Success      200          {object}  domain.Employee
// @Failure      403          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /api/employees/{employee_id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewAccounts); err != nil {
		return err
	}

	employee, err := h.employees.GetByBusinessID(c.Request().Context(), c.Param("employee_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}

// List returns all employee profiles.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Employee
// @Failure      403  {object}  map[string]string
// @Router       /api/employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewAccounts); err != nil {
		return err
	}

	employees, err := h.employees.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employees)
}

// Update applies a partial update to an employee profile. Admin only. The
// business id keeps its original location tag even when the location moves.
//
// @Summary      Update an employee profile
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  path      string                 true  "Employee business id"
// @Param        body         body      updateEmployeeRequest  true  "Fields to update"
// @Success      200          {object}  domain.Employee
// @Failure      403          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /api/employees/{employee_id} [patch]
func (h *EmployeeHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.RequireAdmin(caller); err != nil {
		return err
	}

	var req updateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	employee, err := h.employees.Update(c.Request().Context(), c.Param("employee_id"), ports.EmployeePatch{
		Location: req.Location,
		Title:    req.Title,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employee)
}
