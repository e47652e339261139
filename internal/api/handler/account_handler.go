package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ddfinv/backoffice/internal/api/metrics"
	"github.com/ddfinv/backoffice/internal/core/domain"
	"github.com/ddfinv/backoffice/internal/core/ports"
	"github.com/ddfinv/backoffice/internal/core/service"
)

// AccountHandler handles HTTP requests for account lifecycle operations.
// Authorization is decided by the Guard before any service call.
type AccountHandler struct {
	accounts ports.AccountService
	guard    *service.Guard
}

func NewAccountHandler(accounts ports.AccountService, guard *service.Guard) *AccountHandler {
	return &AccountHandler{accounts: accounts, guard: guard}
}

// --- Request types ---

type createAccountRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" validate:"omitempty,oneof=admin employee client guest"`
}

type updateAccountRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin employee client guest"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required"`
	Confirmation    string `json:"confirmation"`
}

// Me returns the caller's own account.
//
// @Summary      Get the authenticated account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  map[string]string
// @Router       /api/users/me [get]
func (h *AccountHandler) Me(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caller)
}

// Get returns a single account. Callers may view themselves with
// VIEW_ACCOUNT; viewing anyone else requires VIEW_ACCOUNTS.
//
// @Summary      Get an account by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account id"
// @Success      200  {object}  domain.Account
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := h.guard.RequireSelfOrOther(caller, id, domain.PermViewAccount, domain.PermViewAccounts); err != nil {
		return err
	}

	account, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// List returns all accounts, optionally filtered by role.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "Filter by role"  Enums(admin, employee, client, guest)
// @Success      200   {array}   domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/users [get]
func (h *AccountHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermViewAccounts); err != nil {
		return err
	}

	var role *domain.Role
	if raw := c.QueryParam("role"); raw != "" {
		r := domain.Role(raw)
		if !r.Valid() {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown role "+raw)
		}
		role = &r
	}

	accounts, err := h.accounts.List(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// Create creates a new account with an explicit role.
//
// @Summary      Create an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /api/users [post]
func (h *AccountHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermCreateUser); err != nil {
		return err
	}

	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.Create(c.Request().Context(), ports.CreateAccountInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.AccountsCreatedTotal.WithLabelValues(string(account.Role)).Inc()
	return c.JSON(http.StatusCreated, account)
}

// Update applies a partial profile update. Callers may edit themselves with
// EDIT_MY_DETAILS; editing anyone else requires EDIT_USER.
//
// @Summary      Update account details
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account id"
// @Param        body  body      updateAccountRequest  true  "Fields to update"
// @Success      200   {object}  domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := h.guard.RequireSelfOrOther(caller, id, domain.PermEditMyDetails, domain.PermEditUser); err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateProfile(c.Request().Context(), id, ports.AccountPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// UpdatePassword changes an account's password. Self targets go through the
// verified change (current password plus confirmation); other targets are an
// administrative reset.
//
// @Summary      Update an account password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Account id"
// @Param        body  body      updatePasswordRequest  true  "Password change"
// @Success      204   "password updated"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/users/{id}/password [put]
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := h.guard.RequireSelfOrOther(caller, id, domain.PermUpdateMyPassword, domain.PermUpdateOtherPassword); err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if h.guard.IsSelf(caller, id) {
		err = h.accounts.UpdateOwnPassword(c.Request().Context(), id, req.CurrentPassword, req.NewPassword, req.Confirmation)
	} else {
		err = h.accounts.ResetPassword(c.Request().Context(), id, req.NewPassword)
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeRole sets an account's role, replacing its permission set with the
// new role's base set. Admin only.
//
// @Summary      Change an account role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  domain.Account
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id}/role [put]
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.RequireAdmin(caller); err != nil {
		return err
	}

	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account, err := h.accounts.ChangeRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete removes an account and its specialization profile.
//
// @Summary      Delete an account
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "Account id"
// @Success      204  "account deleted"
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	if err := h.guard.Require(caller, domain.PermDeleteUser); err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
