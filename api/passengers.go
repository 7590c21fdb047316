package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/itinerary"
	"github.com/Domenick1991/airticket/internal/service/passenger"
	"github.com/gin-gonic/gin"
)

type PassengerHandler struct {
	service passenger.PassengerUseCase
}

type addPassengerRequest struct {
	TicketID          int64  `json:"ticket_id" binding:"required"`
	PassengerType     string `json:"passenger_type" binding:"required"`
	FullName          string `json:"full_name" binding:"required"`
	Birthday          string `json:"birthday" binding:"required,datetime=2006-01-02"`
	NationalID        string `json:"cccd" binding:"required"`
	CountryCode       string `json:"country_code" binding:"required"`
	AssociatedAdultID *int64 `json:"associated_adult_id"`
}

type updatePassengerRequest struct {
	PassengerType        *string `json:"passenger_type"`
	FullName             *string `json:"full_name"`
	Birthday             *string `json:"birthday" binding:"omitempty,datetime=2006-01-02"`
	NationalID           *string `json:"cccd"`
	CountryCode          *string `json:"country_code"`
	AssociatedAdultID    *int64  `json:"associated_adult_id"`
	ClearAssociatedAdult bool    `json:"clear_associated_adult"`
}

func NewPassengerHandler(service passenger.PassengerUseCase) *PassengerHandler {
	return &PassengerHandler{service: service}
}

func (h *PassengerHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

// RegisterTicketRoutes mounts the passenger listing under a ticket group.
func (h *PassengerHandler) RegisterTicketRoutes(router *gin.RouterGroup) {
	router.GET("/:id/passengers", h.listByTicket)
}

func (h *PassengerHandler) create(c *gin.Context) {
	var req addPassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	birthday, _ := time.Parse(itinerary.DayLayout, req.Birthday)

	p, err := h.service.AddPassenger(c.Request.Context(), passenger.AddPassengerInput{
		TicketID:          req.TicketID,
		Type:              domain.PassengerType(req.PassengerType),
		FullName:          req.FullName,
		Birthday:          birthday,
		NationalID:        req.NationalID,
		CountryCode:       req.CountryCode,
		AssociatedAdultID: req.AssociatedAdultID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPassengerResponse(p))
}

func (h *PassengerHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.GetPassenger(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPassengerResponse(p))
}

func (h *PassengerHandler) listByTicket(c *gin.Context) {
	ticketID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.service.ListPassengers(c.Request.Context(), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]passengerResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPassengerResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PassengerHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req updatePassengerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	input := passenger.UpdatePassengerInput{
		FullName:             req.FullName,
		NationalID:           req.NationalID,
		CountryCode:          req.CountryCode,
		AssociatedAdultID:    req.AssociatedAdultID,
		ClearAssociatedAdult: req.ClearAssociatedAdult,
	}
	if req.PassengerType != nil {
		pt := domain.PassengerType(*req.PassengerType)
		input.Type = &pt
	}
	if req.Birthday != nil {
		birthday, _ := time.Parse(itinerary.DayLayout, *req.Birthday)
		input.Birthday = &birthday
	}

	p, err := h.service.UpdatePassenger(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPassengerResponse(p))
}

func (h *PassengerHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePassenger(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
