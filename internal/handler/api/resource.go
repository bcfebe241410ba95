package api

import (
	"net/http"

	reqdto "parkshare/internal/handler/dto/request"
	resdto "parkshare/internal/handler/dto/response"
	"parkshare/internal/handler/httperr"
	"parkshare/internal/usecase/commands"
	"parkshare/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	cmds         commands.ResourceCommands
	availability commands.AvailabilityCommands
	q            queries.ResourceQueries
	reservations queries.ReservationQueries
}

func NewResourceHandler(
	cmds commands.ResourceCommands,
	availability commands.AvailabilityCommands,
	q queries.ResourceQueries,
	reservations queries.ReservationQueries,
) *ResourceHandler {
	return &ResourceHandler{cmds: cmds, availability: availability, q: q, reservations: reservations}
}

// @Summary Create resource
// @Description Register a parking lot owned by the caller
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateResourceRequest true "Create resource request"
// @Success 201 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/resources [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.CreateResource(c.Request.Context(), req.ToCommand(), caller)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", "/api/resources/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromResourceView(view))
}

// @Summary List bookable resources
// @Description Active resources, oldest first, with keyset pagination
// @Tags resources
// @Produce json
// @Param after query string false "Cursor from the previous page"
// @Param limit query int false "Page size (1-200, default 20)"
// @Success 200 {object} resdto.ResourceListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/resources [get]
func (h *ResourceHandler) List(c *gin.Context) {
	var q reqdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	page, err := h.q.List(c.Request.Context(), q.Cursor(), q.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResourcePage(page))
}

// @Summary List my resources
// @Description Resources owned by the caller, inactive ones included
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from the previous page"
// @Param limit query int false "Page size (1-200, default 20)"
// @Success 200 {object} resdto.ResourceListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/resources/mine [get]
func (h *ResourceHandler) ListMine(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	page, err := h.q.ListByOwner(c.Request.Context(), caller, q.Cursor(), q.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResourcePage(page))
}

// @Summary Get resource
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id} [get]
func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResourceView(view))
}

// @Summary Update resource
// @Description Change the hourly rate or active flag; omitted fields are kept
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param request body reqdto.UpdateResourceRequest true "Update resource request"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id} [patch]
func (h *ResourceHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.UpdateResource(c.Request.Context(), id, req.ToCommand(), caller)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromResourceView(view))
}

// @Summary Delete resource
// @Tags resources
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/resources/{id} [delete]
func (h *ResourceHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	if err := h.cmds.DeleteResource(c.Request.Context(), id, caller); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List availability
// @Description Weekly windows ordered by weekday and start
// @Tags availability
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {array} resdto.AvailabilityWindowResponse
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id}/availability [get]
func (h *ResourceHandler) ListAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	windows, err := h.q.ListAvailability(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityWindowViews(windows))
}

// @Summary Add availability window
// @Tags availability
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param request body reqdto.AddWindowRequest true "Window"
// @Success 201 {object} resdto.AvailabilityWindowResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id}/availability [post]
func (h *ResourceHandler) AddWindow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.AddWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	view, err := h.availability.AddWindow(c.Request.Context(), id, req.ToCommand(), caller)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromAvailabilityWindowView(view))
}

// @Summary Remove availability window
// @Tags availability
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param windowId path string true "Window ID"
// @Success 204 "No Content"
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id}/availability/{windowId} [delete]
func (h *ResourceHandler) RemoveWindow(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	windowID, ok := pathID(c, "windowId")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	if err := h.availability.RemoveWindow(c.Request.Context(), id, windowID, caller); err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List reservations of a resource
// @Description Owner or admin only; ordered by start, cursor paginated
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param id path string true "Resource ID"
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/resources/{id}/reservations [get]
func (h *ResourceHandler) ListReservations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	page, err := h.reservations.ListByResource(c.Request.Context(), caller, id, q.Cursor(), q.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationPage(page))
}
