package client

import (
    "bytes"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"

    "github.com/rixeldev/ticket-system/internal/config"
    "github.com/rixeldev/ticket-system/internal/domain"
    "github.com/rs/zerolog"
)

// Client speaks the ticket API wire contract. Every call makes exactly
// one attempt; there are no retries.
type Client struct {
    baseURL string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
        http:    &http.Client{Timeout: cfg.HTTPTimeout},
        log:     log,
    }
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
    if c.baseURL == "" { return errors.New("client: empty baseURL") }
    var r io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil { return err }
        r = bytes.NewReader(b)
    }
    req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
    if err != nil { return err }
    if body != nil { req.Header.Set("Content-Type", "application/json") }
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        // surface the server's {error} reason when it sent one
        var e struct{ Error string `json:"error"` }
        if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
            return fmt.Errorf("ticket api status=%d: %s", resp.StatusCode, e.Error)
        }
        return fmt.Errorf("ticket api status=%d", resp.StatusCode)
    }
    if out == nil { return nil }
    return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) FetchTickets(ctx context.Context) ([]domain.Ticket, error) {
    var out []domain.Ticket
    if err := c.do(ctx, http.MethodGet, "/api/tickets", nil, &out); err != nil { return nil, err }
    return out, nil
}

func (c *Client) CreateTicket(ctx context.Context, title, description string, ownerID int64) error {
    body := map[string]any{"title": title, "description": description, "userId": ownerID}
    return c.do(ctx, http.MethodPost, "/api/tickets", body, nil)
}

func (c *Client) UpdateTicketStatus(ctx context.Context, id int64, status string) error {
    body := map[string]any{"ticketId": id, "status": status}
    return c.do(ctx, http.MethodPatch, "/api/tickets", body, nil)
}

func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
    q := url.Values{}
    q.Set("ticketId", strconv.FormatInt(id, 10))
    return c.do(ctx, http.MethodDelete, "/api/tickets?"+q.Encode(), nil, nil)
}
