package services

import (
    "context"
    "strings"

    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rixeldev/ticket-system/internal/domain"
    "github.com/rs/zerolog"
)

// store is the slice of the repository the service depends on.
type store interface {
    InsertTicket(ctx context.Context, title, description string, ownerID int64) (int64, error)
    ListTickets(ctx context.Context) ([]domain.Ticket, error)
    UpdateTicketStatus(ctx context.Context, id int64, status string) error
    DeleteTicket(ctx context.Context, id int64) error
    CountTicketsByStatus(ctx context.Context) (map[string]int64, error)
}

type Service struct {
    cfg  config.Config
    log  zerolog.Logger
    repo store
}

func NewService(cfg config.Config, log zerolog.Logger, repo store) *Service {
    return &Service{cfg: cfg, log: log, repo: repo}
}

// Create inserts a new ticket and returns the store-assigned id. Status
// is never taken from the caller; the store defaults it to OPEN.
func (s *Service) Create(ctx context.Context, title, description string, ownerID int64) (int64, error) {
    if strings.TrimSpace(title) == "" {
        return 0, validationf("title is required")
    }
    if ownerID <= 0 {
        return 0, validationf("userId is required")
    }
    id, err := s.repo.InsertTicket(ctx, title, description, ownerID)
    if err != nil {
        return 0, &StoreError{Op: "insert ticket", Err: err}
    }
    s.log.Info().Int64("ticket_id", id).Int64("owner_id", ownerID).Msg("ticket created")
    return id, nil
}

// List returns every ticket in the store. No tickets is an empty
// result, not an error. Order is store-defined.
func (s *Service) List(ctx context.Context) ([]domain.Ticket, error) {
    ts, err := s.repo.ListTickets(ctx)
    if err != nil {
        return nil, &StoreError{Op: "list tickets", Err: err}
    }
    if ts == nil { ts = []domain.Ticket{} }
    return ts, nil
}

// UpdateStatus persists a single-field status transition. Any of the
// four lifecycle values may follow any other; there is no transition
// graph. Updating an id that no longer exists succeeds without effect.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
    if id <= 0 {
        return validationf("ticketId is required")
    }
    if strings.TrimSpace(status) == "" {
        return validationf("status is required")
    }
    if !domain.ValidStatus(status) {
        return validationf("status must be one of %s", strings.Join(domain.Statuses(), ", "))
    }
    if err := s.repo.UpdateTicketStatus(ctx, id, status); err != nil {
        return &StoreError{Op: "update ticket status", Err: err}
    }
    s.log.Info().Int64("ticket_id", id).Str("status", status).Msg("ticket status updated")
    return nil
}

// Delete removes a ticket permanently. Deleting an id that no longer
// exists succeeds without effect.
func (s *Service) Delete(ctx context.Context, id int64) error {
    if id <= 0 {
        return validationf("ticketId is required")
    }
    if err := s.repo.DeleteTicket(ctx, id); err != nil {
        return &StoreError{Op: "delete ticket", Err: err}
    }
    s.log.Info().Int64("ticket_id", id).Msg("ticket deleted")
    return nil
}

// SnapshotStatusCounts logs one structured line with the current ticket
// count per status. Invoked from the cron scheduler.
func (s *Service) SnapshotStatusCounts(ctx context.Context) error {
    counts, err := s.repo.CountTicketsByStatus(ctx)
    if err != nil {
        return &StoreError{Op: "count tickets by status", Err: err}
    }
    ev := s.log.Info()
    var total int64
    for _, st := range domain.Statuses() {
        ev = ev.Int64(strings.ToLower(strings.ReplaceAll(st, " ", "_")), counts[st])
        total += counts[st]
    }
    ev.Int64("total", total).Msg("ticket status snapshot")
    return nil
}
