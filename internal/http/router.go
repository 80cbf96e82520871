package http

import (
    "github.com/gin-gonic/gin"
    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, log zerolog.Logger, svc service) *gin.Engine {
    if cfg.AppEnv != "dev" { gin.SetMode(gin.ReleaseMode) }
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(func(c *gin.Context){
        c.Next()
        log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
    })

    h := NewHandlers(cfg, log, svc)

    r.GET("/healthz", h.Healthz)

    api := r.Group("/api")
    {
        api.POST("/tickets", h.CreateTicket)
        api.GET("/tickets", h.ListTickets)
        api.PATCH("/tickets", h.UpdateTicketStatus)
        api.DELETE("/tickets", h.DeleteTicket)
    }

    return r
}
