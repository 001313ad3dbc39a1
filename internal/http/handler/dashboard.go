package handler

import (
	"github.com/gofiber/fiber/v2"

	"docvault/internal/http/middleware"
	"docvault/internal/model"
	"docvault/internal/service"
)

// DashboardRedirect sends the principal to the dashboard matching their role.
func DashboardRedirect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(middleware.PrincipalRoleKey).(model.Role)
		switch role {
		case model.RoleAdmin:
			return c.Redirect("/admin/dashboard", fiber.StatusFound)
		case model.RoleUser:
			return c.Redirect("/user/dashboard", fiber.StatusFound)
		default:
			return fiber.NewError(fiber.StatusForbidden, "unrecognized role")
		}
	}
}

// AdminDashboard returns system-wide counts for the admin landing page.
func AdminDashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.AdminStats(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}

// UserDashboard returns the principal's own profile and contribution count.
func UserDashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.UserStats(c.UserContext(), principalID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(stats)
	}
}
