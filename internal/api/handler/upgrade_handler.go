package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ddfinv/backoffice/internal/api/metrics"
	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
	"github.com/ddfinv/backoffice/internal/core/service"
)

// UpgradeHandler handles HTTP requests for the guest-to-client upgrade
// workflow.
type UpgradeHandler struct {
	upgrades ports.UpgradeService
	guard    *service.Guard
}

func NewUpgradeHandler(upgrades ports.UpgradeService, guard *service.Guard) *UpgradeHandler {
	return &UpgradeHandler{upgrades: upgrades, guard: guard}
}

type submitUpgradeRequest struct {
	Details string `json:"details"`
}

type approveUpgradeRequest struct {
	AssignedEmployeeID string `json:"assigned_employee_id"`
}

type rejectUpgradeRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Submit files an upgrade request for the caller's own account.
//
// @Summary      Request an upgrade to client
// @Tags         upgrade-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      submitUpgradeRequest  true  "Application details"
// @Success      201   {object}  domain.UpgradeRequest
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/upgrade-requests [post]
func (h *UpgradeHandler) Submit(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermRequestClientAccount); err != nil {
		return err
	}

	var req submitUpgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	request, err := h.upgrades.Submit(c.Request().Context(), caller.ID, req.Details)
	if err != nil {
		return err
	}

	metrics.UpgradeRequestsTotal.WithLabelValues("submitted").Inc()
	return c.JSON(http.StatusCreated, request)
}

// List returns upgrade requests filtered by status, pending by default.
//
// @Summary      List upgrade requests
// @Tags         upgrade-requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"  Enums(PENDING, APPROVED, REJECTED)
// @Success      200     {array}   domain.UpgradeRequest
// @Failure      403     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Router       /api/upgrade-requests [get]
func (h *UpgradeHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewClients); err != nil {
		return err
	}

	status := c.QueryParam("status")
	if status == "" {
		requests, err := h.upgrades.PendingRequests(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, requests)
	}

	requests, err := h.upgrades.RequestsByStatus(c.Request().Context(), domain.UpgradeStatus(status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// ListByAccount returns the upgrade requests filed for an account. Callers
// may view their own history; viewing anyone else's requires VIEW_CLIENTS.
//
// @Summary      List upgrade requests for an account
// @Tags         upgrade-requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account id"
// @Success      200  {array}   domain.UpgradeRequest
// @Failure      403  {object}  map[string]string
// @Router       /api/users/{id}/upgrade-requests [get]
func (h *UpgradeHandler) ListByAccount(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	// The self branch uses VIEW_ACCOUNT, which every role keeps: an account
	// upgraded to client must still see its own request history.
	accountID := c.Param("id")
	if err := h.guard.RequireSelfOrOther(caller, accountID, domain.PermViewAccount, domain.PermViewClients); err != nil {
		return err
	}

	requests, err := h.upgrades.RequestsByAccount(c.Request().Context(), accountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requests)
}

// Approve approves a pending request and creates the client profile in the
// same transaction.
//
// @Summary      Approve an upgrade request
// @Tags         upgrade-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Request id"
// @Param        body  body      approveUpgradeRequest  true  "Client draft"
// @Success      200   {object}  domain.Client
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/upgrade-requests/{id}/approve [post]
func (h *UpgradeHandler) Approve(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermCreateClient); err != nil {
		return err
	}

	var req approveUpgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	client, err := h.upgrades.Approve(c.Request().Context(), c.Param("id"), ports.CreateClientInput{
		AssignedEmployeeID: req.AssignedEmployeeID,
	})
	if err != nil {
		return err
	}

	metrics.UpgradeRequestsTotal.WithLabelValues("approved").Inc()
	return c.JSON(http.StatusOK, client)
}

// Reject rejects a pending request, recording the reason in its details.
//
// @Summary      Reject an upgrade request
// @Tags         upgrade-requests
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string                true  "Request id"
// @Param        body  body      rejectUpgradeRequest  true  "Rejection reason"
// @Success      204   "request rejected"
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/upgrade-requests/{id}/reject [post]
func (h *UpgradeHandler) Reject(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermCreateClient); err != nil {
		return err
	}

	var req rejectUpgradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.upgrades.Reject(c.Request().Context(), c.Param("id"), req.Reason); err != nil {
		return err
	}

	metrics.UpgradeRequestsTotal.WithLabelValues("rejected").Inc()
	return c.NoContent(http.StatusNoContent)
}
