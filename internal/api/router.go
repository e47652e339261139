package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ddfinv/backoffice/internal/api/handler"
	"github.com/ddfinv/backoffice/internal/api/middleware"
	"github.com/ddfinv/backoffice/internal/core/ports"
	"github.com/ddfinv/backoffice/internal/core/service"
)

// RouterDeps carries the constructed services the router wires into handlers.
type RouterDeps struct {
	DB    *mongo.Database
	Redis *redis.Client

	JWTSecret string

	AccountRepo ports.AccountRepository
	Tokens      ports.TokenStore

	Auth      ports.AuthService
	Accounts  ports.AccountService
	Employees ports.EmployeeService
	Clients   ports.ClientService
	Upgrades  ports.UpgradeService
	Guard     *service.Guard

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	accountHandler := handler.NewAccountHandler(deps.Accounts, deps.Guard)
	employeeHandler := handler.NewEmployeeHandler(deps.Employees, deps.Guard)
	clientHandler := handler.NewClientHandler(deps.Clients, deps.Guard)
	upgradeHandler := handler.NewUpgradeHandler(deps.Upgrades, deps.Guard)

	authMiddleware := middleware.Auth(deps.JWTSecret, deps.AccountRepo, deps.Tokens, deps.Log)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Protected API ---
	api := e.Group("/api", authMiddleware)

	users := api.Group("/users")
	users.GET("/me", accountHandler.Me)
	users.GET("", accountHandler.List)
	users.POST("", accountHandler.Create)
	users.GET("/:id", accountHandler.Get)
	users.PATCH("/:id", accountHandler.Update)
	users.PUT("/:id/password", accountHandler.UpdatePassword)
	users.PUT("/:id/role", accountHandler.ChangeRole)
	users.DELETE("/:id", accountHandler.Delete)
	users.GET("/:id/upgrade-requests", upgradeHandler.ListByAccount)

	employees := api.Group("/employees")
	employees.POST("", employeeHandler.Create)
	employees.GET("", employeeHandler.List)
	employees.GET("/:employee_id", employeeHandler.Get)
	employees.PATCH("/:employee_id", employeeHandler.Update)
	employees.GET("/:employee_id/clients", clientHandler.ListByEmployee)

	clients := api.Group("/clients")
	clients.POST("", clientHandler.Create)
	clients.GET("", clientHandler.List)
	clients.GET("/:client_id", clientHandler.Get)
	clients.PUT("/:client_id/employee", clientHandler.Assign)

	upgrades := api.Group("/upgrade-requests")
	upgrades.POST("", upgradeHandler.Submit)
	upgrades.GET("", upgradeHandler.List)
	upgrades.POST("/:id/approve", upgradeHandler.Approve)
	upgrades.POST("/:id/reject", upgradeHandler.Reject)

	return e
}
