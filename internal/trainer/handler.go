package trainer

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

// @Summary      List trainers
// @Tags         trainers
// @Produce      json
// @Success      200 {array} trainer.PersonalTrainer
// @Router       /api/trainers [get]
func (h *Handler) List(c *gin.Context) {
	trainers, err := h.service.ListTrainers(c.Request.Context(), false)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, trainers)
}

// @Summary      Trainer detail
// @Tags         trainers
// @Produce      json
// @Param        trainerID path int true "Trainer ID"
// @Success      200 {object} trainer.PersonalTrainer
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/trainers/{trainerID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	t, err := h.service.GetTrainer(c.Request.Context(), id)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      Book a personal training session
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body trainer.BookPtRequest true "Booking request"
// @Success      201 {object} trainer.PtBooking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/pt-bookings [post]
func (h *Handler) Book(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req BookPtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	b, err := h.service.Book(c.Request.Context(), userID, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// @Summary      My PT bookings
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} trainer.PtBookingWithDetails
// @Router       /api/pt-bookings [get]
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

// @Summary      Cancel a PT booking
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/pt-bookings/{bookingID} [delete]
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

	if err := h.service.CancelBooking(c.Request.Context(), userID, bookingID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled"})
}

// @Summary      My session packages
// @Tags         trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} trainer.SessionPackage
// @Router       /api/pt-packages [get]
func (h *Handler) MyPackages(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	packages, err := h.service.MyPackages(c.Request.Context(), userID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}

// @Summary      Record a session on a package
// @Description  Creates a pending attendance record; an admin confirms it later.
// @Tags         trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        packageID path int true "Package ID"
// @Param        request body trainer.RecordAttendanceRequest false "Optional note"
// @Success      201 {object} trainer.SessionAttendance
// @Failure      403 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/pt-packages/{packageID}/attendance [post]
func (h *Handler) RecordAttendance(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	packageID, err := strconv.Atoi(c.Param("packageID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	var req RecordAttendanceRequest
	_ = c.ShouldBindJSON(&req)

	a, err := h.service.RecordAttendance(c.Request.Context(), userID, packageID, req.Note)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// admin handlers

// @Summary      Create a trainer
// @Tags         admin,trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body trainer.CreateTrainerRequest true "Trainer"
// @Success      201 {object} trainer.PersonalTrainer
// @Router       /api/admin/trainers [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	t, err := h.service.CreateTrainer(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, t)
}

// @Summary      Update a trainer
// @Tags         admin,trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        trainerID path int true "Trainer ID"
// @Param        request body trainer.UpdateTrainerRequest true "Fields to update"
// @Success      200 {object} trainer.PersonalTrainer
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/trainers/{trainerID} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("trainerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid trainer ID"})
		return
	}

	var req UpdateTrainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	t, err := h.service.UpdateTrainer(c.Request.Context(), id, req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, t)
}

// @Summary      List PT bookings
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        status query string false "Filter by status"
// @Success      200 {array} trainer.PtBookingWithDetails
// @Router       /api/admin/pt-bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Confirm a PT booking
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/pt-bookings/{bookingID}/confirm [put]
func (h *Handler) ConfirmBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	if err := h.service.ConfirmBooking(c.Request.Context(), bookingID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking confirmed"})
}

// @Summary      Complete a PT booking
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID path int true "Booking ID"
// @Success      200 {object} api.MessageResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/pt-bookings/{bookingID}/complete [put]
func (h *Handler) CompleteBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	if err := h.service.CompleteBooking(c.Request.Context(), bookingID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking completed"})
}

// @Summary      Create a session package
// @Tags         admin,trainers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body trainer.CreatePackageRequest true "Package"
// @Success      201 {object} trainer.SessionPackage
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admin/pt-packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BindError(c, err)
		return
	}

	p, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      Pending attendance records
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} trainer.SessionAttendance
// @Router       /api/admin/pt-attendance [get]
func (h *Handler) ListPendingAttendance(c *gin.Context) {
	records, err := h.service.ListPendingAttendance(c.Request.Context())
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// @Summary      Confirm an attendance record
// @Description  Decrements the package counter; flips the package to completed at zero.
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        attendanceID path int true "Attendance ID"
// @Success      200 {object} trainer.SessionPackage
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/pt-attendance/{attendanceID}/confirm [put]
func (h *Handler) ConfirmAttendance(c *gin.Context) {
	attendanceID, err := strconv.Atoi(c.Param("attendanceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid attendance ID"})
		return
	}

	p, err := h.service.ConfirmAttendance(c.Request.Context(), attendanceID)
	if err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Reject an attendance record
// @Tags         admin,trainers
// @Security     BearerAuth
// @Produce      json
// @Param        attendanceID path int true "Attendance ID"
// @Success      200 {object} api.MessageResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admin/pt-attendance/{attendanceID}/reject [put]
func (h *Handler) RejectAttendance(c *gin.Context) {
	attendanceID, err := strconv.Atoi(c.Param("attendanceID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid attendance ID"})
		return
	}

	if err := h.service.RejectAttendance(c.Request.Context(), attendanceID); err != nil {
		api.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Attendance rejected"})
}
