package controller

import (
	"net/http"

	"github.com/Luismorlan/tunemux/server/middlewares"
	"github.com/Luismorlan/tunemux/service"
	"github.com/gin-gonic/gin"
)

type JobController struct {
	service *service.AssetJobService
}

func NewJobController(s *service.AssetJobService) *JobController {
	return &JobController{service: s}
}

// GetByID lets the submitter poll an asset job.
func (ctl *JobController) GetByID(c *gin.Context) {
	job, err := ctl.service.GetByID(c.Request.Context(), middlewares.CurrentUser(c), c.Param("job_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, job)
}
