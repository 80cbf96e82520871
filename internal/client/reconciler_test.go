package client

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strconv"
    "sync"
    "testing"
    "time"

    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rixeldev/ticket-system/internal/domain"
    "github.com/rs/zerolog"
)

// fakeAPI serves the ticket wire contract over an in-memory map.
type fakeAPI struct {
    mu      sync.Mutex
    nextID  int64
    tickets []domain.Ticket

    failNext bool // force a 500 on the next request
}

func (a *fakeAPI) handler() http.Handler {
    mux := http.NewServeMux()
    mux.HandleFunc("/api/tickets", func(w http.ResponseWriter, r *http.Request) {
        a.mu.Lock()
        defer a.mu.Unlock()
        if a.failNext {
            a.failNext = false
            w.WriteHeader(http.StatusInternalServerError)
            _ = json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
            return
        }
        switch r.Method {
        case http.MethodGet:
            out := a.tickets
            if out == nil { out = []domain.Ticket{} }
            _ = json.NewEncoder(w).Encode(out)
        case http.MethodPost:
            var req struct {
                Title       string `json:"title"`
                Description string `json:"description"`
                UserID      int64  `json:"userId"`
            }
            _ = json.NewDecoder(r.Body).Decode(&req)
            a.nextID++
            a.tickets = append(a.tickets, domain.Ticket{
                ID: a.nextID, Title: req.Title, Description: req.Description,
                Status: domain.StatusOpen, OwnerID: req.UserID,
            })
            w.WriteHeader(http.StatusCreated)
            _ = json.NewEncoder(w).Encode(map[string]string{"message": "ticket created"})
        case http.MethodPatch:
            var req struct {
                TicketID int64  `json:"ticketId"`
                Status   string `json:"status"`
            }
            _ = json.NewDecoder(r.Body).Decode(&req)
            for i := range a.tickets {
                if a.tickets[i].ID == req.TicketID { a.tickets[i].Status = req.Status }
            }
            _ = json.NewEncoder(w).Encode(map[string]string{"message": "ticket status updated"})
        case http.MethodDelete:
            id, _ := strconv.ParseInt(r.URL.Query().Get("ticketId"), 10, 64)
            kept := a.tickets[:0]
            for _, t := range a.tickets {
                if t.ID != id { kept = append(kept, t) }
            }
            a.tickets = kept
            _ = json.NewEncoder(w).Encode(map[string]string{"message": "ticket deleted"})
        }
    })
    return mux
}

func newTestReconciler(t *testing.T) (*Reconciler, *fakeAPI) {
    t.Helper()
    api := &fakeAPI{}
    srv := httptest.NewServer(api.handler())
    t.Cleanup(srv.Close)
    cfg := config.Config{APIBaseURL: srv.URL, HTTPTimeout: 5 * time.Second}
    return NewReconciler(NewClient(cfg, zerolog.Nop())), api
}

func TestRefresh_ReplacesLocalViewWholesale(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusOpen}}

    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }
    if got := r.Tickets(); len(got) != 1 || got[0].Title != "a" {
        t.Fatalf("unexpected local view: %#v", got)
    }

    api.mu.Lock()
    api.tickets = nil
    api.mu.Unlock()
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }
    if got := r.Tickets(); len(got) != 0 {
        t.Fatalf("stale tickets survived wholesale refresh: %#v", got)
    }
}

func TestCreate_RefetchesAfterServerConfirms(t *testing.T) {
    r, _ := newTestReconciler(t)
    if err := r.Create(context.Background(), "Printer jam", "3rd floor", 7); err != nil {
        t.Fatalf("create: %v", err)
    }
    got := r.Tickets()
    if len(got) != 1 { t.Fatalf("expected 1 ticket after create, got %d", len(got)) }
    if got[0].ID == 0 {
        t.Fatalf("local view must carry the server-assigned id, got %#v", got[0])
    }
    if got[0].Status != domain.StatusOpen { t.Fatalf("expected OPEN, got %q", got[0].Status) }
}

func TestCreate_FailureLeavesLocalViewUntouched(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusOpen}}
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    api.mu.Lock()
    api.failNext = true
    api.mu.Unlock()
    if err := r.Create(context.Background(), "x", "", 1); err == nil {
        t.Fatalf("expected create failure")
    }
    if got := r.Tickets(); len(got) != 1 || got[0].ID != 1 {
        t.Fatalf("failed create must not disturb local view: %#v", got)
    }
}

func TestUpdateStatus_ConfirmThenApply(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusOpen}}
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    if err := r.UpdateStatus(context.Background(), 1, domain.StatusInProgress); err != nil {
        t.Fatalf("update: %v", err)
    }
    if got := r.Tickets()[0].Status; got != domain.StatusInProgress {
        t.Fatalf("expected IN PROGRESS locally after ack, got %q", got)
    }
    if st := r.UpdateState(1); st != StateCommitted {
        t.Fatalf("expected committed, got %v", st)
    }
}

func TestUpdateStatus_RollbackKeepsPriorState(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusOpen}}
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    api.mu.Lock()
    api.failNext = true
    api.mu.Unlock()
    if err := r.UpdateStatus(context.Background(), 1, domain.StatusClosed); err == nil {
        t.Fatalf("expected server rejection")
    }
    if got := r.Tickets()[0].Status; got != domain.StatusOpen {
        t.Fatalf("rejected update must leave local copy unchanged, got %q", got)
    }
    if st := r.UpdateState(1); st != StateRolledBack {
        t.Fatalf("expected rolled-back, got %v", st)
    }
}

func TestDelete_TwoStepConfirmation(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{
        {ID: 1, Title: "a", Status: domain.StatusOpen},
        {ID: 2, Title: "b", Status: domain.StatusOpen},
    }
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    // confirm without staging is refused client-side
    if err := r.ConfirmDelete(context.Background()); err != ErrNoStagedDelete {
        t.Fatalf("expected ErrNoStagedDelete, got %v", err)
    }

    r.StageDelete(2)
    if len(r.Tickets()) != 2 {
        t.Fatalf("staging must not touch the local collection")
    }
    if err := r.ConfirmDelete(context.Background()); err != nil { t.Fatalf("confirm: %v", err) }
    got := r.Tickets()
    if len(got) != 1 || got[0].ID != 1 {
        t.Fatalf("expected ticket 2 gone, got %#v", got)
    }
    if r.StagedDelete() != 0 { t.Fatalf("staged target must clear after commit") }
    if st := r.DeleteState(); st != StateCommitted { t.Fatalf("expected committed, got %v", st) }
}

func TestDelete_CancelAndFailure(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusOpen}}
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    r.StageDelete(1)
    r.CancelDelete()
    if r.StagedDelete() != 0 { t.Fatalf("cancel must clear the staged target") }
    if len(r.Tickets()) != 1 { t.Fatalf("cancel must not touch the collection") }

    r.StageDelete(1)
    api.mu.Lock()
    api.failNext = true
    api.mu.Unlock()
    if err := r.ConfirmDelete(context.Background()); err == nil {
        t.Fatalf("expected delete failure")
    }
    if len(r.Tickets()) != 1 {
        t.Fatalf("failed delete must leave local copy unchanged")
    }
    if r.StagedDelete() != 1 { t.Fatalf("failed delete keeps the staged target for retry") }
    if st := r.DeleteState(); st != StateRolledBack { t.Fatalf("expected rolled-back, got %v", st) }

    // retry succeeds and is a no-op-tolerant path end to end
    if err := r.ConfirmDelete(context.Background()); err != nil { t.Fatalf("retry: %v", err) }
    if len(r.Tickets()) != 0 { t.Fatalf("expected empty local view") }
}

func TestDelete_SecondDeleteOfSameIDIsNoopSuccess(t *testing.T) {
    r, api := newTestReconciler(t)
    api.tickets = []domain.Ticket{{ID: 1, Title: "a", Status: domain.StatusOpen}}
    if err := r.Refresh(context.Background()); err != nil { t.Fatalf("refresh: %v", err) }

    r.StageDelete(1)
    if err := r.ConfirmDelete(context.Background()); err != nil { t.Fatalf("delete: %v", err) }

    r.StageDelete(1)
    if err := r.ConfirmDelete(context.Background()); err != nil {
        t.Fatalf("second delete of same id must succeed, got %v", err)
    }
}
