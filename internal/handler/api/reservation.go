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

type ReservationHandler struct {
	cmds commands.BookingCommands
	q    queries.ReservationQueries
}

func NewReservationHandler(cmds commands.BookingCommands, q queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{cmds: cmds, q: q}
}

// @Summary Create reservation
// @Description Books [start, end) on a resource. 409 carries the rejection reason
// @Description (time_conflict, outside_availability, resource_unavailable).
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 503 {object} httperr.Response
// @Router /api/reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.CreateReservation(c.Request.Context(), req.ToCommand(), caller)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.Header("Location", "/api/reservations/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary List my reservations
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (max 200)"
// @Success 200 {object} resdto.ReservationListResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/reservations [get]
func (h *ReservationHandler) ListMine(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		return
	}
	var q reqdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	page, err := h.q.ListByRequester(c.Request.Context(), caller.ID, q.Cursor(), q.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationPage(page))
}

// @Summary Get reservation
// @Description Visible to the requester, the resource owner and admins
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}

// @Summary Update reservation status
// @Description Cancel (requester), or force active/completed (owner or system).
// @Description Repeating the current status is a no-op.
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body reqdto.UpdateReservationStatusRequest true "Target status"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	caller, ok := actor(c)
	if !ok {
		return
	}
	var req reqdto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortInvalidRequest(c, err)
		return
	}
	view, err := h.cmds.UpdateReservationStatus(c.Request.Context(), id, req.Status, caller)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}
