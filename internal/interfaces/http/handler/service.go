package handler

import (
	catalogapp "github.com/apex/backoffice/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ServiceHandler handles service catalog API endpoints
type ServiceHandler struct {
	BaseHandler
	serviceService *catalogapp.ServiceService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(serviceService *catalogapp.ServiceService) *ServiceHandler {
	return &ServiceHandler{serviceService: serviceService}
}

// ReplaceTemplatesRequest carries the new template set for a service
type ReplaceTemplatesRequest struct {
	Templates []catalogapp.ExpenseTemplateInput `json:"expense_templates" binding:"dive"`
}

// Create godoc
// @ID           createService
// @Summary      Create a catalog service
// @Description  Creates a service with its expense templates; template categories must exist
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateServiceRequest true "Service data"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/services [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	var req catalogapp.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	service, err := h.serviceService.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, service)
}

// GetByID godoc
// @ID           getServiceById
// @Summary      Get service by ID
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/services/{id} [get]
func (h *ServiceHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	service, err := h.serviceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// List godoc
// @ID           listServices
// @Summary      List catalog services
// @Tags         services
// @Produce      json
// @Param        search query string false "Search term"
// @Param        active query bool false "Filter by active flag"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/services [get]
func (h *ServiceHandler) List(c *gin.Context) {
	var filter catalogapp.ServiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	services, total, err := h.serviceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, services, total, pageOf(filter.Page), pageSizeOf(filter.PageSize))
}

// Update godoc
// @ID           updateService
// @Summary      Update a service
// @Description  Replaces the service's details and template set
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body catalogapp.UpdateServiceRequest true "Service data"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/services/{id} [put]
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	var req catalogapp.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	service, err := h.serviceService.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// ReplaceTemplates godoc
// @ID           replaceServiceTemplates
// @Summary      Replace a service's expense templates
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Param        request body ReplaceTemplatesRequest true "Template set"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/services/{id}/templates [put]
func (h *ServiceHandler) ReplaceTemplates(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	var req ReplaceTemplatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	service, err := h.serviceService.ReplaceTemplates(c.Request.Context(), actorID(c), id, req.Templates)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, service)
}

// Delete godoc
// @ID           deleteService
// @Summary      Delete a service
// @Tags         services
// @Produce      json
// @Param        id path string true "Service ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/services/{id} [delete]
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid service ID format")
		return
	}

	if err := h.serviceService.Delete(c.Request.Context(), actorID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CategoryHandler handles expense category API endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create godoc
// @ID           createExpenseCategory
// @Summary      Create an expense category
// @Tags         expense-categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category data"
// @Success      201 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/expense-categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), actorID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, category)
}

// List godoc
// @ID           listExpenseCategories
// @Summary      List expense categories
// @Tags         expense-categories
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/expense-categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categories)
}

// Update godoc
// @ID           updateExpenseCategory
// @Summary      Update an expense category
// @Tags         expense-categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.UpdateCategoryRequest true "Category data"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/expense-categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), actorID(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete godoc
// @ID           deleteExpenseCategory
// @Summary      Delete an expense category
// @Tags         expense-categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /catalog/expense-categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid category ID format")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), actorID(c), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
