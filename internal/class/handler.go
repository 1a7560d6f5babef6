package class

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      List classes
// @Description  Upcoming by default; pass all=true for the full history.
// @Tags         classes
// @Produce      json
// @Param        all query bool false "Include past classes"
// @Success      200 {array} class.GymClassWithEnrollment
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/classes [get]
func (h *Handler) List(c *gin.Context) {
	all := c.Query("all") == "true"

	classes, err := h.service.ListClasses(c.Request.Context(), !all)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, classes)
}

// @Summary      Class detail
// @Tags         classes
// @Produce      json
// @Param        classID path int true "Class ID"
// @Success      200 {object} class.GymClassWithEnrollment
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/classes/{classID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	gc, err := h.service.GetClass(c.Request.Context(), id)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gc)
}

// @Summary      Book a class
// @Description  Requires an active membership; rejects full or started classes.
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID path int true "Class ID"
// @Success      201 {object} class.Booking
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/classes/{classID}/book [post]
func (h *Handler) Book(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, classID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// @Summary      Cancel a class booking
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/class-bookings/{bookingID} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID, bookingID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled"})
}

// @Summary      My class bookings
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} class.BookingWithDetails
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/class-bookings [get]
func (h *Handler) MyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.MyBookings(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Create a class
// @Tags         admin,classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body class.CreateClassRequest true "Class definition"
// @Success      201 {object} class.GymClass
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /api/admin/classes [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	gc, err := h.service.CreateClass(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gc)
}

// @Summary      Update a class
// @Tags         admin,classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        classID path int true "Class ID"
// @Param        request body class.UpdateClassRequest true "Fields to change"
// @Success      200 {object} class.GymClass
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/classes/{classID} [put]
func (h *Handler) Update(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	var req UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	gc, err := h.service.UpdateClass(c.Request.Context(), classID, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gc)
}

// @Summary      Class roster
// @Description  Admin-only: all bookings for a class, any status.
// @Tags         admin,classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID path int true "Class ID"
// @Success      200 {array} class.BookingWithDetails
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/classes/{classID}/bookings [get]
func (h *Handler) Roster(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid class ID"})
		return
	}

	bookings, err := h.service.ClassRoster(c.Request.Context(), classID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Mark a booking attended
// @Tags         admin,classes
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/class-bookings/{bookingID}/attended [put]
func (h *Handler) MarkAttended(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	if err := h.service.MarkAttended(c.Request.Context(), bookingID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Attendance recorded"})
}
