package http

import (
    "context"
    "net/http"
    "strconv"
    "strings"

    "github.com/gin-gonic/gin"
    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rixeldev/ticket-system/internal/domain"
    "github.com/rixeldev/ticket-system/internal/services"
    "github.com/rs/zerolog"
)

type service interface {
    Create(ctx context.Context, title, description string, ownerID int64) (int64, error)
    List(ctx context.Context) ([]domain.Ticket, error)
    UpdateStatus(ctx context.Context, id int64, status string) error
    Delete(ctx context.Context, id int64) error
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

type createRequest struct {
    Title       string `json:"title"`
    Description string `json:"description"`
    UserID      int64  `json:"userId"`
}

func (h *Handlers) CreateTicket(c *gin.Context) {
    var req createRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }
    // fast-fail ahead of the service call; the service checks again
    if strings.TrimSpace(req.Title) == "" || req.UserID <= 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "title and userId are required"})
        return
    }
    if _, err := h.svc.Create(c.Request.Context(), req.Title, req.Description, req.UserID); err != nil {
        h.fail(c, err, "create ticket failed")
        return
    }
    c.JSON(http.StatusCreated, gin.H{"message": "ticket created"})
}

func (h *Handlers) ListTickets(c *gin.Context) {
    ts, err := h.svc.List(c.Request.Context())
    if err != nil {
        h.fail(c, err, "list tickets failed")
        return
    }
    c.JSON(http.StatusOK, ts)
}

type updateStatusRequest struct {
    TicketID int64  `json:"ticketId"`
    Status   string `json:"status"`
}

func (h *Handlers) UpdateTicketStatus(c *gin.Context) {
    var req updateStatusRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
        return
    }
    if req.TicketID <= 0 || strings.TrimSpace(req.Status) == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "ticketId and status are required"})
        return
    }
    if err := h.svc.UpdateStatus(c.Request.Context(), req.TicketID, req.Status); err != nil {
        h.fail(c, err, "update ticket status failed")
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "ticket status updated"})
}

func (h *Handlers) DeleteTicket(c *gin.Context) {
    raw := c.Query("ticketId")
    if raw == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "ticketId is required"})
        return
    }
    id, err := strconv.ParseInt(raw, 10, 64)
    if err != nil || id <= 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "ticketId must be a positive integer"})
        return
    }
    if err := h.svc.Delete(c.Request.Context(), id); err != nil {
        h.fail(c, err, "delete ticket failed")
        return
    }
    c.JSON(http.StatusOK, gin.H{"message": "ticket deleted"})
}

// fail maps service errors onto the response contract: validation
// failures echo their reason with a 400, everything else is logged in
// full and surfaced as an opaque 500.
func (h *Handlers) fail(c *gin.Context, err error, msg string) {
    if services.IsValidation(err) {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    h.log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
    c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
