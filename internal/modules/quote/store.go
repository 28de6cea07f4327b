// README: Quote store backed by PostgreSQL.
package quote

import (
    "context"
    "errors"

    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"

    "pabili/internal/types"
)

type Store struct {
    db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
    return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, q *Quote) error {
    _, err := s.db.Exec(ctx, `
        INSERT INTO quotes (
            id, session_id, distance_km, buyer_requested, hours, weight_kg,
            delivery_cost, buyer_cost, overweight_cost, total_cost, currency, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9, $10, $11, $12
        )`,
        string(q.ID),
        toStringPtr(q.SessionID),
        q.Input.DistanceKm,
        q.Input.BuyerServiceRequested,
        q.Input.Hours,
        q.Input.WeightKg,
        q.Result.DeliveryCost,
        q.Result.BuyerCost,
        q.Result.OverweightCost,
        q.Result.TotalCost,
        q.Result.Currency,
        q.CreatedAt,
    )
    return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Quote, error) {
    row := s.db.QueryRow(ctx, `
        SELECT id, session_id, distance_km, buyer_requested, hours, weight_kg, created_at
        FROM quotes
        WHERE id = $1`, string(id),
    )
    q, err := scanQuote(row)
    if errors.Is(err, pgx.ErrNoRows) {
        return nil, ErrNotFound
    }
    return q, err
}

func (s *Store) ListBySession(ctx context.Context, sessionID types.ID, limit int) ([]*Quote, error) {
    rows, err := s.db.Query(ctx, `
        SELECT id, session_id, distance_km, buyer_requested, hours, weight_kg, created_at
        FROM quotes
        WHERE session_id = $1
        ORDER BY created_at DESC
        LIMIT $2`, string(sessionID), limit,
    )
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    var out []*Quote
    for rows.Next() {
        q, err := scanQuote(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, q)
    }
    return out, rows.Err()
}

// scanQuote reads the stored input only; the result is recomputed by the
// service so stored rows and receipts never disagree.
func scanQuote(row pgx.Row) (*Quote, error) {
    var q Quote
    var id string
    var sessionID *string
    err := row.Scan(
        &id, &sessionID,
        &q.Input.DistanceKm, &q.Input.BuyerServiceRequested, &q.Input.Hours, &q.Input.WeightKg,
        &q.CreatedAt,
    )
    if err != nil {
        return nil, err
    }
    q.ID = types.ID(id)
    if sessionID != nil {
        sid := types.ID(*sessionID)
        q.SessionID = &sid
    }
    q.Persisted = true
    return &q, nil
}

func toStringPtr(id *types.ID) *string {
    if id == nil {
        return nil
    }
    s := string(*id)
    return &s
}
