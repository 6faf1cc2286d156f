package handler

import (
	"career-compass/internal/dto"
	"career-compass/internal/logger"
	"career-compass/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMyProfile retrieves the profile of the currently authenticated user.
// @Summary Get My Profile
// @Description Retrieves the profile information of the logged-in user.
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "User not found"
// @Failure 500 {object} middleware.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (h *UserHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	profile, err := h.userService.GetUserProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// UpdateMyProfile creates or updates the profile of the authenticated user.
// @Summary Create or update My Profile
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile"
// @Success 200 {object} dto.UserProfileResponse "Updated"
// @Success 201 {object} dto.UserProfileResponse "Created"
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMyProfile(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := middleware.ParseBody(c, &req); err != nil {
		return err
	}

	profile, created, err := h.userService.UpsertProfile(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	if created {
		logger.Get().Info("User profile registered", zap.String("user_id", userID))
		return c.Status(fiber.StatusCreated).JSON(profile)
	}
	return c.JSON(profile)
}
