package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/service"
)

type createUserRequest struct {
	Name                 string `json:"name" form:"name"`
	Email                string `json:"email" form:"email"`
	Password             string `json:"password" form:"password"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
	Role                 string `json:"role" form:"role"`
}

type updateUserRequest struct {
	Name   string `json:"name" form:"name"`
	Email  string `json:"email" form:"email"`
	Role   string `json:"role" form:"role"`
	Status string `json:"status" form:"status"`
}

// ListUsers returns all accounts.
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"users": users})
	}
}

// CreateUser handles the admin "create user" form.
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		user, err := svc.Create(c.UserContext(), service.CreateUserInput{
			Name:                 req.Name,
			Email:                req.Email,
			Password:             req.Password,
			PasswordConfirmation: req.PasswordConfirmation,
			Role:                 model.Role(req.Role),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":    user,
			"message": "User created successfully.",
		})
	}
}

// GetUser returns a single account.
func GetUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		user, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"user": user})
	}
}

// UpdateUser overwrites an account's name, email, role and status.
func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		var req updateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		user, err := svc.Update(c.UserContext(), service.UpdateUserInput{
			ID:     id,
			Name:   req.Name,
			Email:  req.Email,
			Role:   model.Role(req.Role),
			Status: model.Status(req.Status),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"user":    user,
			"message": "User updated successfully.",
		})
	}
}

// DeleteUser removes an account. Admins cannot delete their own account.
func DeleteUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), id, principalID(c)); err != nil {
			if errors.Is(err, service.ErrSelfDelete) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "You cannot delete your own account.",
				})
			}
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{
			"userId":  id,
			"message": "User deleted successfully.",
		})
	}
}
