package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
	"github.com/ddfinv/backoffice/internal/core/service"
)

// ClientHandler handles HTTP requests for client profiles and their
// assignment to employees.
type ClientHandler struct {
	clients ports.ClientService
	guard   *service.Guard
}

func NewClientHandler(clients ports.ClientService, guard *service.Guard) *ClientHandler {
	return &ClientHandler{clients: clients, guard: guard}
}

type createClientRequest struct {
	AccountID          string `json:"account_id" validate:"required"`
	AssignedEmployeeID string `json:"assigned_employee_id"`
}

type assignClientRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

// Create attaches a client profile to an existing account.
//
// @Summary      Create a client profile
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client details"
// @Success      201   {object}  domain.Client
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermCreateClient); err != nil {
		return err
	}

	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.clients.Create(c.Request().Context(), ports.CreateClientInput{
		AccountID:          req.AccountID,
		AssignedEmployeeID: req.AssignedEmployeeID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Get returns a client profile by business id.
//
// @Summary      Get a client by business id
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  path      string  true  "Client business id (e.g. NYC-12)"
// @Success      200        {object}  domain.Client
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/clients/{client_id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewClient); err != nil {
		return err
	}

	client, err := h.clients.GetByBusinessID(c.Request().Context(), c.Param("client_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

// List returns all client profiles.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      403  {object}  map[string]string
// @Router       /api/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewClients); err != nil {
		return err
	}

	clients, err := h.clients.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// ListByEmployee returns the clients assigned to an employee.
//
// @Summary      List clients assigned to an employee
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id  path      string  true  "Employee business id"
// @Success      200          {array}   domain.Client
// @Failure      403          {object}  map[string]string
// @Failure      404          {object}  map[string]string
// @Router       /api/employees/{employee_id}/clients [get]
func (h *ClientHandler) ListByEmployee(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewClients); err != nil {
		return err
	}

	clients, err := h.clients.ListByEmployee(c.Request().Context(), c.Param("employee_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Assign reassigns a client to an employee. The client's business id keeps
// its original location tag.
//
// @Summary      Assign a client to an employee
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        client_id  path      string               true  "Client business id"
// @Param        body       body      assignClientRequest  true  "Target employee"
// @Success      200        {object}  domain.Client
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/clients/{client_id}/employee [put]
func (h *ClientHandler) Assign(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermAssignClient); err != nil {
		return err
	}

	var req assignClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.clients.AssignToEmployee(c.Request().Context(), c.Param("client_id"), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}
