package server

import (
	"shayarihub/internal/models"
	"shayarihub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type shayariRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Visibility string `json:"visibility"`
}

func (r shayariRequest) input() service.ShayariInput {
	return service.ShayariInput{
		Title:      r.Title,
		Content:    r.Content,
		Visibility: models.Visibility(r.Visibility),
	}
}

// CreateShayari handles POST /api/shayaris
// @Summary Create shayari
// @Tags shayaris
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string,visibility=string} true "Shayari"
// @Success 201 {object} object{message=string,shayari=models.Shayari}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /shayaris [post]
func (s *Server) CreateShayari(c *fiber.Ctx) error {
	var req shayariRequest
	if err := c.BodyParser(&req); err != nil {
		return mapServiceError(c, models.NewValidationError("Invalid request body"))
	}

	sh, err := s.shayariService.Create(c.UserContext(), viewerID(c), req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Shayari created successfully",
		"shayari": sh,
	})
}

// GetShayari handles GET /api/shayaris/:id
// @Summary Get shayari
// @Description Private shayaris are visible to their author only.
// @Tags shayaris
// @Produce json
// @Param id path int true "Shayari ID"
// @Success 200 {object} object{shayari=models.Shayari}
// @Failure 404 {object} models.ErrorResponse
// @Router /shayaris/{id} [get]
func (s *Server) GetShayari(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	sh, err := s.shayariService.Get(c.UserContext(), id, viewerID(c))
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"shayari": sh})
}

// UpdateShayari handles PUT /api/shayaris/:id
// @Summary Update shayari
// @Tags shayaris
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shayari ID"
// @Param request body object{title=string,content=string,visibility=string} true "Shayari"
// @Success 200 {object} object{message=string,shayari=models.Shayari}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shayaris/{id} [put]
func (s *Server) UpdateShayari(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	var req shayariRequest
	if err := c.BodyParser(&req); err != nil {
		return mapServiceError(c, models.NewValidationError("Invalid request body"))
	}

	sh, err := s.shayariService.Update(c.UserContext(), viewerID(c), id, req.input())
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Shayari updated successfully",
		"shayari": sh,
	})
}

// DeleteShayari handles DELETE /api/shayaris/:id
// @Summary Delete shayari
// @Description Authors delete their own posts; admins may remove any post.
// @Tags shayaris
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shayari ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shayaris/{id} [delete]
func (s *Server) DeleteShayari(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	if err := s.shayariService.Delete(c.UserContext(), currentActor(c), id); err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Shayari deleted successfully"})
}

// ToggleLike handles POST /api/shayaris/:id/like
// @Summary Like or unlike
// @Tags shayaris
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shayari ID"
// @Success 200 {object} object{liked=bool,likesCount=int,message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shayaris/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	state, err := s.shayariService.ToggleLike(c.UserContext(), currentUser(c), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	message := "Shayari unliked successfully"
	if state.Liked {
		message = "Shayari liked successfully"
	}
	return c.JSON(fiber.Map{
		"liked":      state.Liked,
		"likesCount": state.LikesCount,
		"message":    message,
	})
}

// GetLikeStatus handles GET /api/shayaris/:id/like
// @Summary Like status
// @Description liked is always false for anonymous callers.
// @Tags shayaris
// @Produce json
// @Param id path int true "Shayari ID"
// @Success 200 {object} models.LikeState
// @Failure 404 {object} models.ErrorResponse
// @Router /shayaris/{id}/like [get]
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}

	state, err := s.shayariService.LikeStatus(c.UserContext(), viewerID(c), id)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.JSON(state)
}

// ReportShayari handles POST /api/shayaris/:id/report
// @Summary Report shayari
// @Tags shayaris
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Shayari ID"
// @Param request body object{reason=string,description=string} true "Report"
// @Success 201 {object} object{message=string,report=models.Report}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /shayaris/{id}/report [post]
func (s *Server) ReportShayari(c *fiber.Ctx) error {
	id, err := s.parseID(c)
	if err != nil {
		return nil
	}
	var req struct {
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return mapServiceError(c, models.NewValidationError("Invalid request body"))
	}

	report, err := s.shayariService.Report(c.UserContext(), viewerID(c), id, req.Reason, req.Description)
	if err != nil {
		return mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Report submitted successfully",
		"report":  report,
	})
}
