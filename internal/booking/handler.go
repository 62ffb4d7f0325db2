package booking

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/api"
	"shareit/internal/apperr"
	"shareit/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     func() time.Time
}

type HandlerOption func(*Handler)

// WithHandlerClock sets the clock used to reject start times in the past.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

func NewHandler(service Service, opts ...HandlerOption) *Handler {
	h := &Handler{service: service, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/bookings", h.Create)
	r.GET("/bookings", h.ListForBooker)
	r.GET("/bookings/owner", h.ListForOwner)
	r.GET("/bookings/:bookingID", h.GetByID)
	r.PATCH("/bookings/:bookingID", h.UpdateState)
}

// Create godoc
// @Summary      Request a booking
// @Description  Creates a WAITING booking of an item for the caller.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        X-Sharer-User-Id  header    int                   true  "Caller id"
// @Param        request           body      CreateBookingRequest  true  "Booking"
// @Success      200               {object}  BookingResponse
// @Failure      400               {object}  api.ErrorResponse
// @Failure      404               {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user id required"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return
	}

	iv, err := req.Interval()
	if err != nil {
		api.RespondError(c, err)
		return
	}
	if err := ValidateInterval(iv, h.now()); err != nil {
		api.RespondError(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, req.ItemID, iv)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// GetByID godoc
// @Summary      Get booking
// @Description  Visible to the booker and to the item owner.
// @Tags         bookings
// @Produce      json
// @Param        X-Sharer-User-Id  header    int  true  "Caller id"
// @Param        bookingID         path      int  true  "Booking ID"
// @Success      200               {object}  BookingResponse
// @Failure      400               {object}  api.ErrorResponse
// @Failure      404               {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetByID(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user id required"})
		return
	}

	bookingID, err := parseID(c.Param("bookingID"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	b, err := h.service.GetByIDForViewer(c.Request.Context(), userID, bookingID)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// UpdateState godoc
// @Summary      Approve or reject booking
// @Description  Owner only; allowed once, while the booking is WAITING.
// @Tags         bookings
// @Produce      json
// @Param        X-Sharer-User-Id  header    int     true  "Caller id"
// @Param        bookingID         path      int     true  "Booking ID"
// @Param        approved          query     string  true  "true or false"
// @Success      200               {object}  BookingResponse
// @Failure      400               {object}  api.ErrorResponse
// @Failure      404               {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [patch]
func (h *Handler) UpdateState(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user id required"})
		return
	}

	bookingID, err := parseID(c.Param("bookingID"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	approve, err := parseApproved(c.Query("approved"))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	b, err := h.service.UpdateStateByOwner(c.Request.Context(), userID, bookingID, approve)
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListForBooker godoc
// @Summary      List own bookings
// @Tags         bookings
// @Produce      json
// @Param        X-Sharer-User-Id  header    int     true   "Caller id"
// @Param        state             query     string  false  "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED"
// @Success      200               {array}   BookingResponse
// @Failure      400               {object}  api.ErrorResponse
// @Failure      404               {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListForBooker(c *gin.Context) {
	h.list(c, RoleBooker)
}

// ListForOwner godoc
// @Summary      List bookings of own items
// @Tags         bookings
// @Produce      json
// @Param        X-Sharer-User-Id  header    int     true   "Caller id"
// @Param        state             query     string  false  "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED"
// @Success      200               {array}   BookingResponse
// @Failure      400               {object}  api.ErrorResponse
// @Failure      404               {object}  api.ErrorResponse
// @Router       /bookings/owner [get]
func (h *Handler) ListForOwner(c *gin.Context) {
	h.list(c, RoleOwner)
}

func (h *Handler) list(c *gin.Context, role Role) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user id required"})
		return
	}

	state, err := ParseState(c.DefaultQuery("state", string(StateAll)))
	if err != nil {
		api.RespondError(c, err)
		return
	}

	var bookings []BookingWithDetails
	if role == RoleOwner {
		bookings, err = h.service.ListForOwner(c.Request.Context(), userID, state)
	} else {
		bookings, err = h.service.ListForBooker(c.Request.Context(), userID, state)
	}
	if err != nil {
		api.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponses(bookings))
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid booking id: %s", raw)
	}
	return id, nil
}

func parseApproved(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, apperr.Validation("approved must be true or false")
	}
}
