package repo

import (
    "context"
    "errors"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rixeldev/ticket-system/internal/domain"
    "github.com/rs/zerolog"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

func MustOpen(ctx context.Context, cfg config.Config, log zerolog.Logger) *DB {
    pool, err := pgxpool.New(ctx, cfg.DBDSN)
    if err != nil { log.Fatal().Err(err).Msg("db connect failed") }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { log.Fatal().Err(err).Msg("db ping failed") }
    return &DB{Pool: pool, log: log}
}

func (d *DB) Close() { d.Pool.Close() }

// Repository owns all statement execution against the ticket store.
// Every method runs exactly one statement; the pool hands out and
// reclaims the connection on every exit path.
type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

// InsertTicket writes one row and returns the store-assigned id. Status
// is left to the column default (OPEN).
func (r *Repository) InsertTicket(ctx context.Context, title, description string, ownerID int64) (int64, error) {
    const q = `INSERT INTO tickets(title, description, owner_id)
        VALUES($1,$2,$3)
        RETURNING ticket_id`
    var id int64
    if err := r.db.Pool.QueryRow(ctx, q, title, description, ownerID).Scan(&id); err != nil {
        return 0, err
    }
    return id, nil
}

// ListTickets returns every ticket. The description is scanned into the
// struct here, while the connection is still held; nothing lazy crosses
// the adapter boundary.
func (r *Repository) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
    const q = `SELECT ticket_id, title, COALESCE(description,''), status, owner_id FROM tickets`
    rows, err := r.db.Pool.Query(ctx, q)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []domain.Ticket
    for rows.Next() {
        var t domain.Ticket
        if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.OwnerID); err != nil { return nil, err }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil { return nil, err }
    return out, nil
}

// UpdateTicketStatus updates a single row by id. The command tag is
// not inspected: an absent id and an updated row return alike.
func (r *Repository) UpdateTicketStatus(ctx context.Context, id int64, status string) error {
    _, err := r.db.Pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE ticket_id=$2`, status, id)
    return err
}

// DeleteTicket removes a single row by id. Deleting an absent id is a
// no-op, same contract as UpdateTicketStatus.
func (r *Repository) DeleteTicket(ctx context.Context, id int64) error {
    _, err := r.db.Pool.Exec(ctx, `DELETE FROM tickets WHERE ticket_id=$1`, id)
    return err
}

// CountTicketsByStatus feeds the periodic snapshot job.
func (r *Repository) CountTicketsByStatus(ctx context.Context) (map[string]int64, error) {
    rows, err := r.db.Pool.Query(ctx, `SELECT status, COUNT(*) FROM tickets GROUP BY status`)
    if err != nil { return nil, err }
    defer rows.Close()
    out := map[string]int64{}
    for rows.Next() {
        var s string
        var c int64
        if err := rows.Scan(&s, &c); err != nil { return nil, err }
        out[s] = c
    }
    if err := rows.Err(); err != nil { return nil, err }
    return out, nil
}
