package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airticket/internal/service/itinerary"
	"github.com/Domenick1991/airticket/internal/service/ticket"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service ticket.TicketUseCase
}

func NewTicketHandler(service ticket.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

// Register mounts the ticket routes. auth guards booking, which needs an
// acting user.
func (h *TicketHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/search", h.search)
	router.GET("/search-by-outbound-time", h.searchByOutboundTime)
	router.GET("/:id", h.get)
	router.PATCH("/:id", h.update)
	router.DELETE("/:id", h.delete)
	router.PATCH("/:id/book", auth, h.book)
	router.PATCH("/:id/check-in", h.checkIn)
	router.PATCH("/:id/cancel", h.cancel)
}

// RegisterUserRoutes mounts the per-user ticket listing.
func (h *TicketHandler) RegisterUserRoutes(router *gin.RouterGroup) {
	router.GET("/:userId/tickets", h.listByUser)
}

func (h *TicketHandler) create(c *gin.Context) {
	var input ticket.CreateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	t, err := h.service.CreateTicket(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(t))
}

func (h *TicketHandler) list(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponses(tickets))
}

func (h *TicketHandler) listByUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	tickets, err := h.service.ListTicketsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponses(tickets))
}

func (h *TicketHandler) get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.GetTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ticket.UpdateTicketInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	t, err := h.service.UpdateTicket(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteTicket(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) book(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := actingUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	t, err := h.service.ConfirmTicket(c.Request.Context(), id, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) checkIn(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.ConfirmTicket(c.Request.Context(), id, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.CancelTicket(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(t))
}

func (h *TicketHandler) search(c *gin.Context) {
	var input ticket.SearchInput
	if err := c.ShouldBindQuery(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketLegsResponses(result))
}

// searchByOutboundTime takes date as RFC 3339 or YYYY-MM-DD (UTC midnight)
// and before as a boolean, defaulting to true.
func (h *TicketHandler) searchByOutboundTime(c *gin.Context) {
	at, err := parseInstant(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected RFC 3339 or YYYY-MM-DD"})
		return
	}
	before := true
	if raw := c.Query("before"); raw != "" {
		before, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before flag"})
			return
		}
	}

	result, err := h.service.SearchByOutboundTime(c.Request.Context(), at, before)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketLegsResponses(result))
}

func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(itinerary.DayLayout, s)
}
