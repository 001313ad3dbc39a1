package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"docvault/internal/auth"
	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
//
// Public surface: health probes, API docs and login. Everything else sits
// behind the token middleware; /admin additionally requires the admin role.
func RegisterRoutes(
	app *fiber.App,
	db *sql.DB,
	docSvc service.DocumentService,
	userSvc service.UserService,
	dashSvc service.DashboardService,
	issuer *auth.TokenIssuer,
) {
	// API documentation
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL: "/openapi.yaml",
	}))

	// Health probes
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Authentication
	app.Post("/auth/login", Login(userSvc, issuer))
	app.Post("/auth/logout", Logout())

	authed := app.Group("/", middleware.Authenticate(issuer))

	authed.Get("/dashboard", DashboardRedirect())

	// Admin-only surface
	admin := authed.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.Get("/dashboard", AdminDashboard(dashSvc))
	admin.Get("/users", ListUsers(userSvc))
	admin.Post("/users", CreateUser(userSvc))
	admin.Get("/users/:id", GetUser(userSvc))
	admin.Put("/users/:id", UpdateUser(userSvc))
	admin.Delete("/users/:id", DeleteUser(userSvc))

	// Regular user landing page; admins have their own
	userArea := authed.Group("/user", middleware.RequireRole(model.RoleUser))
	userArea.Get("/dashboard", UserDashboard(dashSvc))

	// Document workflow, shared by both roles; tokens carrying any other
	// role are rejected. Static segments are registered before the :id
	// routes so they match first.
	docs := authed.Group("/documents", middleware.RequireRole(model.RoleAdmin, model.RoleUser))
	docs.Get("/", ListDocuments(docSvc))
	docs.Get("/create", CreateDocumentForm(docSvc))
	docs.Post("/", CreateDocument(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Get("/:id/edit", EditDocumentForm(docSvc))
	docs.Put("/:id", UpdateDocument(docSvc))
	docs.Post("/:id/upload-version", UploadDocumentVersion(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
}
