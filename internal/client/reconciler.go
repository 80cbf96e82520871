package client

import (
    "context"
    "errors"
    "sync"

    "github.com/rixeldev/ticket-system/internal/domain"
)

// MutationState tracks one mutation through its round-trip.
type MutationState int

const (
    StateIdle MutationState = iota
    StatePending
    StateCommitted
    StateRolledBack
)

func (s MutationState) String() string {
    switch s {
    case StatePending:
        return "pending"
    case StateCommitted:
        return "committed"
    case StateRolledBack:
        return "rolled-back"
    default:
        return "idle"
    }
}

var ErrNoStagedDelete = errors.New("reconciler: no delete staged")

// Reconciler keeps a session-local view of the ticket collection in
// sync with the server. The local copy is never authoritative: status
// changes land only after the server acknowledges them, and deletes go
// through an explicit stage/confirm gesture. One in-flight mutation is
// tracked per kind; nothing here guards against the caller firing two
// mutations for different tickets at once.
type Reconciler struct {
    api *Client

    mu          sync.Mutex
    tickets     []domain.Ticket
    updateState map[int64]MutationState
    staged      int64
    deleteState MutationState
}

func NewReconciler(api *Client) *Reconciler {
    return &Reconciler{api: api, updateState: map[int64]MutationState{}}
}

// Refresh replaces the local view wholesale with the server's list.
func (r *Reconciler) Refresh(ctx context.Context) error {
    ts, err := r.api.FetchTickets(ctx)
    if err != nil { return err }
    r.mu.Lock()
    r.tickets = ts
    r.mu.Unlock()
    return nil
}

// Tickets returns a copy of the local view, in server order.
func (r *Reconciler) Tickets() []domain.Ticket {
    r.mu.Lock()
    defer r.mu.Unlock()
    out := make([]domain.Ticket, len(r.tickets))
    copy(out, r.tickets)
    return out
}

// Create submits a new ticket and, on success, refetches the whole
// list — the server assigns the id, so a local insert would guess.
func (r *Reconciler) Create(ctx context.Context, title, description string, ownerID int64) error {
    if err := r.api.CreateTicket(ctx, title, description, ownerID); err != nil {
        return err
    }
    return r.Refresh(ctx)
}

// UpdateStatus round-trips a status change and applies it to the local
// copy only after the server acknowledges it. On failure the local copy
// is left exactly as it was.
func (r *Reconciler) UpdateStatus(ctx context.Context, id int64, status string) error {
    r.mu.Lock()
    r.updateState[id] = StatePending
    r.mu.Unlock()

    if err := r.api.UpdateTicketStatus(ctx, id, status); err != nil {
        r.mu.Lock()
        r.updateState[id] = StateRolledBack
        r.mu.Unlock()
        return err
    }

    r.mu.Lock()
    for i := range r.tickets {
        if r.tickets[i].ID == id {
            r.tickets[i].Status = status
            break
        }
    }
    r.updateState[id] = StateCommitted
    r.mu.Unlock()
    return nil
}

// UpdateState reports where the last status mutation for a ticket got to.
func (r *Reconciler) UpdateState(id int64) MutationState {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.updateState[id]
}

// StageDelete records the delete target without touching the server.
// The destructive request is only issued by ConfirmDelete.
func (r *Reconciler) StageDelete(id int64) {
    r.mu.Lock()
    r.staged = id
    r.deleteState = StateIdle
    r.mu.Unlock()
}

// CancelDelete clears the staged target.
func (r *Reconciler) CancelDelete() {
    r.mu.Lock()
    r.staged = 0
    r.deleteState = StateIdle
    r.mu.Unlock()
}

// StagedDelete returns the currently staged target id, zero if none.
func (r *Reconciler) StagedDelete() int64 {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.staged
}

// ConfirmDelete commits the staged deletion. The item leaves the local
// collection only after the server confirms; on failure the staged
// target is kept so the caller can retry or cancel.
func (r *Reconciler) ConfirmDelete(ctx context.Context) error {
    r.mu.Lock()
    id := r.staged
    if id == 0 {
        r.mu.Unlock()
        return ErrNoStagedDelete
    }
    r.deleteState = StatePending
    r.mu.Unlock()

    if err := r.api.DeleteTicket(ctx, id); err != nil {
        r.mu.Lock()
        r.deleteState = StateRolledBack
        r.mu.Unlock()
        return err
    }

    r.mu.Lock()
    kept := r.tickets[:0]
    for _, t := range r.tickets {
        if t.ID != id { kept = append(kept, t) }
    }
    r.tickets = kept
    r.staged = 0
    r.deleteState = StateCommitted
    r.mu.Unlock()
    return nil
}

// DeleteState reports where the last delete mutation got to.
func (r *Reconciler) DeleteState() MutationState {
    r.mu.Lock()
    defer r.mu.Unlock()
    return r.deleteState
}
