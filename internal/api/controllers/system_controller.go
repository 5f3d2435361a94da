package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate/internal/services"
	"tripmate/pkg/utils"
)

type SystemController struct {
	systemService services.SystemServiceInterface
}

func NewSystemController(systemService services.SystemServiceInterface) *SystemController {
	return &SystemController{
		systemService: systemService,
	}
}

func (s *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *SystemController) Hello(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"service": "tripmate"}, "Hello from tripmate")
}

// Status godoc
// @Summary Service status
// @Description Store health, AI provider and uptime
// @Tags System
// @Produce json
// @Success 200 {object} response_models.SystemStatus
// @Router /api/status [get]
func (s *SystemController) Status(c *gin.Context) {
	utils.RespondSuccess(c, s.systemService.Status(c.Request.Context()), "")
}
