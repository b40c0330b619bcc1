package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vilofleet/flota-api/internal/application/auth"
	"github.com/vilofleet/flota-api/internal/application/brokers"
	"github.com/vilofleet/flota-api/internal/application/invites"
	"github.com/vilofleet/flota-api/internal/application/requests"
	"github.com/vilofleet/flota-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RequestUC    *requests.UseCase
	RequestPDFUC *requests.PDFUseCase
	CompanyUC    *invites.CompanyInviteUseCase
	EmployeeUC   *invites.EmployeeInviteUseCase
	Watcher      *invites.RosterWatcher
	BrokerAgg    *brokers.Aggregator
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Verificaciones (público: el registrante aún no tiene cuenta)
	inviteHandler := NewInviteHandler(deps.CompanyUC)
	verifications := api.Group("/verifications")
	verifications.Get("/:id", inviteHandler.VerifyToken)
	verifications.Post("/:id/complete", inviteHandler.CompleteRegistration)

	// Registro vía link de empleado (público)
	employeeHandler := NewEmployeeHandler(deps.EmployeeUC, deps.Watcher)
	api.Post("/invites/employees/:id/register", employeeHandler.AttachRegistrant)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solicitudes y pedidos (protegido)
	reqGroup := protected.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC, deps.RequestPDFUC)
	reqGroup.Post("/", requestHandler.Submit)
	reqGroup.Get("/", RequireRole(entity.RoleAdmin), requestHandler.List)
	reqGroup.Get("/company/:id", requestHandler.ListByCompany)
	reqGroup.Get("/user/:id", requestHandler.ListByUser)
	reqGroup.Get("/broker/:id", requestHandler.ListByBroker)
	reqGroup.Patch("/:id/status", requestHandler.Transition)
	reqGroup.Post("/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleEmployer), requestHandler.Approve)
	reqGroup.Delete("/:id", RequireRole(entity.RoleAdmin), requestHandler.Delete)
	reqGroup.Get("/:id/pdf", requestHandler.OrderPDF)

	// Invitaciones de empresa/empleador/broker (protegido)
	protected.Post("/invites/companies", RequireRole(entity.RoleAdmin, entity.RoleBroker), inviteHandler.InviteCompany)

	// Invitaciones de empleado y roster (protegido)
	protected.Post("/invites/employees", employeeHandler.Invite)
	protected.Post("/invites/employees/link", employeeHandler.GenerateLink)
	protected.Post("/invites/employees/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleEmployer), employeeHandler.Approve)
	protected.Post("/invites/employees/:id/deny", RequireRole(entity.RoleAdmin, entity.RoleEmployer), employeeHandler.Deny)
	protected.Get("/companies/:id/employees", employeeHandler.Roster)
	protected.Get("/companies/:id/employees/watch", employeeHandler.WatchRoster)

	// Agregaciones de brokers (protegido)
	brokerHandler := NewBrokerHandler(deps.BrokerAgg)
	brokerGroup := protected.Group("/brokers", RequireRole(entity.RoleAdmin, entity.RoleBroker))
	brokerGroup.Get("/:id/stats", brokerHandler.Stats)
	brokerGroup.Get("/:id/top", brokerHandler.TopBrokers)
}
