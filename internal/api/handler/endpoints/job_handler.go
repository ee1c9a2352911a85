package endpoints

import (
	"api"
	"api/internal/api/handler/mapper"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/internal/api/service"
	"api/pkg"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type jobHandler struct {
	workflowService *service.WorkflowService
	evidenceService *service.EvidenceService
	config          api.AppConfig
	logger          zerolog.Logger
}

func newJobHandler(workflowService *service.WorkflowService) *jobHandler {
	return &jobHandler{
		workflowService: workflowService,
		evidenceService: service.NewEvidenceService(),
		config:          api.GetConfig(),
		logger:          api.Logger,
	}
}

func JobHandler(router *graceful.Graceful, workflowService *service.WorkflowService) {
	h := newJobHandler(workflowService)

	routes := router.Group("/api/v1/jobs")
	routes.Use(middleware.AuthMiddleware(h.config))
	{
		routes.GET("", h.getAll)
		routes.GET("/:id", h.getByID)
		routes.POST("", h.create)
		routes.DELETE("/:id", h.delete)

		routes.POST("/:id/status", h.transition)
		routes.POST("/:id/assign", h.assign)

		routes.POST("/:id/images", h.attachImage)
		routes.GET("/:id/images", h.listImages)
		routes.POST("/:id/locations", h.recordLocation)
		routes.GET("/:id/locations", h.listLocations)
	}
}

func jobID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// getAll returns jobs visible to the current actor, optionally filtered by
// status, priority or assignee.
func (slf *jobHandler) getAll(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}

	var filter models.JobFilter
	if raw := c.Query("status"); raw != "" {
		status := models.JobStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid status filter"})
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.JobPriority(raw)
		if !priority.Valid() {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid priority filter"})
			return
		}
		filter.Priority = &priority
	}
	if raw := c.Query("assignedTo"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid assignedTo filter"})
			return
		}
		filter.AssignedTo = pkg.ToPtr(uint(id))
	}
	if raw := c.Query("createdBy"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid createdBy filter"})
			return
		}
		filter.CreatedBy = pkg.ToPtr(uint(id))
	}

	jobs, err := slf.workflowService.FindAllForActor(role, actorID, filter)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to get jobs")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToJobResponses(jobs))
}

// getByID returns a single job with its evidence and audit trail.
func (slf *jobHandler) getByID(c *gin.Context) {
	if _, _, ok := actor(c); !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	job, err := slf.workflowService.FindByID(id)
	if err != nil {
		writeError(c, err)
		return
	}

	images, err := slf.evidenceService.ListImages(id)
	if err != nil {
		writeError(c, err)
		return
	}
	locations, err := slf.evidenceService.ListLocations(id)
	if err != nil {
		writeError(c, err)
		return
	}
	updates, err := slf.workflowService.History(id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToJobDetail(*job, images, locations, updates))
}

func (slf *jobHandler) create(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}

	var req request.CreateJob
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create job request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	job, err := slf.workflowService.Create(role, actorID, service.CreateJobAttrs{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToJobResponse(*job))
}

func (slf *jobHandler) transition(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req request.TransitionJob
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse transition request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	job, err := slf.workflowService.RequestTransition(role, actorID, id, req.Status, req.Note)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToJobResponse(*job))
}

func (slf *jobHandler) assign(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req request.AssignJob
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse assign request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	job, err := slf.workflowService.Assign(role, actorID, id, req.AssigneeID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToJobResponse(*job))
}

func (slf *jobHandler) delete(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	if err := slf.workflowService.Delete(role, actorID, id); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (slf *jobHandler) attachImage(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req request.AttachImage
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse attach image request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	image, err := slf.evidenceService.AttachImage(role, actorID, id, req.ImageURL, req.ImageType)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToImageResponse(*image))
}

func (slf *jobHandler) listImages(c *gin.Context) {
	if _, _, ok := actor(c); !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	images, err := slf.evidenceService.ListImages(id)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]response.JobImage, len(images))
	for i, img := range images {
		out[i] = mapper.ToImageResponse(img)
	}
	c.JSON(http.StatusOK, out)
}

func (slf *jobHandler) recordLocation(c *gin.Context) {
	actorID, role, ok := actor(c)
	if !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	var req request.RecordLocation
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse record location request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	location, err := slf.evidenceService.RecordLocation(role, actorID, id, req.Latitude, req.Longitude, req.Accuracy)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, mapper.ToLocationResponse(*location))
}

func (slf *jobHandler) listLocations(c *gin.Context) {
	if _, _, ok := actor(c); !ok {
		return
	}
	id, ok := jobID(c)
	if !ok {
		return
	}

	locations, err := slf.evidenceService.ListLocations(id)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]response.JobLocation, len(locations))
	for i, loc := range locations {
		out[i] = mapper.ToLocationResponse(loc)
	}
	c.JSON(http.StatusOK, out)
}
