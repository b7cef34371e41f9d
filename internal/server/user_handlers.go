package server

import (
	"io"

	"shayarihub/internal/models"
	"shayarihub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile handles PUT /api/user/profile
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{username=string,bio=string,profilePhoto=string} true "Profile"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Username     string  `json:"username"`
		Bio          string  `json:"bio"`
		ProfilePhoto *string `json:"profilePhoto"`
	}
	if err := c.BodyParser(&req); err != nil {
		return mapServiceError(c, models.NewValidationError("Invalid request body"))
	}

	// An omitted photo keeps the current one.
	photo := currentUser(c).ProfilePhoto
	if req.ProfilePhoto != nil {
		photo = *req.ProfilePhoto
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:       viewerID(c),
		Username:     req.Username,
		Bio:          req.Bio,
		ProfilePhoto: photo,
	})
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// UploadProfilePhoto handles POST /api/user/profile/photo
// @Summary Upload profile photo
// @Description Accepts JPEG, PNG, GIF or WebP; stores a 256x256 WebP thumbnail.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Image"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Router /user/profile/photo [post]
func (s *Server) UploadProfilePhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return mapServiceError(c, models.NewValidationError("No file uploaded"))
	}
	f, err := fh.Open()
	if err != nil {
		return mapServiceError(c, models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return mapServiceError(c, models.NewInternalError(err))
	}

	user, err := s.avatarService.Upload(c.UserContext(), viewerID(c), content)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile photo updated successfully",
		"user":    user,
	})
}

type userStatsResponse struct {
	models.UserStats
	// Followers is reserved for clients expecting the field; there is no
	// follow graph.
	Followers int `json:"followers"`
}

// GetUserStats handles GET /api/user/stats
// @Summary Current user's stats
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} userStatsResponse
// @Router /user/stats [get]
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	stats, err := s.userService.Stats(c.UserContext(), viewerID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(userStatsResponse{UserStats: *stats})
}
