package server

import (
	"shayarihub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminStats handles GET /api/admin/stats
// @Summary Site statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SiteStats
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/stats [get]
func (s *Server) AdminStats(c *fiber.Ctx) error {
	stats, err := s.statsService.SiteStats(c.UserContext())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(stats)
}

// AdminListUsers handles GET /api/admin/users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Username or email fragment"
// @Success 200 {object} service.UserPage
// @Router /admin/users [get]
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	result, err := s.moderationService.ListUsers(c.UserContext(), c.Query("search"), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// AdminUpdateUser handles PUT /api/admin/users/:id
// @Summary Ban, unban or change role
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body object{action=string,role=string} true "ban, unban or change_role"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [put]
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	var req struct {
		Action string `json:"action"`
		Role   string `json:"role"`
	}
	if err := c.BodyParser(&req); err != nil {
		return mapServiceError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.moderationService.UpdateUser(c.UserContext(), currentActor(c), id, req.Action, req.Role)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// AdminDeleteUser handles DELETE /api/admin/users/:id
// @Summary Delete user
// @Description Removes the account with its shayaris, likes and reports. Super admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/users/{id} [delete]
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.moderationService.DeleteUser(c.UserContext(), currentActor(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// AdminListShayaris handles GET /api/admin/shayaris
// @Summary List shayaris
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Param search query string false "Title or content fragment"
// @Param visibility query string false "all, public or private"
// @Success 200 {object} models.ShayariPage
// @Router /admin/shayaris [get]
func (s *Server) AdminListShayaris(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	result, err := s.moderationService.ListShayaris(c.UserContext(), c.Query("search"), c.Query("visibility"), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// AdminDeleteShayari handles DELETE /api/admin/shayaris/:id
// @Summary Take down shayari
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shayari ID"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/shayaris/{id} [delete]
func (s *Server) AdminDeleteShayari(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	if err := s.moderationService.Takedown(c.UserContext(), currentActor(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shayari deleted successfully"})
}

// AdminListReports handles GET /api/admin/reports
// @Summary List reports
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} service.ReportPage
// @Router /admin/reports [get]
func (s *Server) AdminListReports(c *fiber.Ctx) error {
	page, limit := queryPage(c)
	result, err := s.moderationService.ListReports(c.UserContext(), page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(result)
}

// AdminAuditLog handles GET /api/admin/audit
// @Summary Moderation audit log
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of entries" default(50)
// @Success 200 {object} object{entries=[]models.AuditEntry}
// @Router /admin/audit [get]
func (s *Server) AdminAuditLog(c *fiber.Ctx) error {
	entries, err := s.moderationService.RecentAudit(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"entries": entries})
}
