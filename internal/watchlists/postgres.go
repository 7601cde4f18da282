package watchlists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore persists watchlists in two tables: watchlists and
// watchlist_items (kind discriminator, nullable token_id/market_id,
// ON DELETE CASCADE). See the migrations directory for the schema.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(ctx context.Context, dsn string, logger *zap.SugaredLogger) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Watchlist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM watchlists
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}
	defer rows.Close()

	var watchlists []Watchlist
	var ids []string
	for rows.Next() {
		wl, err := scanWatchlist(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watchlist: %w", err)
		}
		watchlists = append(watchlists, *wl)
		ids = append(ids, wl.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list watchlists: %w", err)
	}
	if len(watchlists) == 0 {
		return []Watchlist{}, nil
	}

	// One query for all items, grouped in memory.
	itemRows, err := s.pool.Query(ctx, `
		SELECT id, watchlist_id, kind, token_id, market_id, created_at
		FROM watchlist_items
		WHERE watchlist_id = ANY($1)
		ORDER BY created_at ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("list watchlist items: %w", err)
	}
	defer itemRows.Close()

	itemsByWatchlist := make(map[string][]WatchlistItem)
	for itemRows.Next() {
		item, watchlistID, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		itemsByWatchlist[watchlistID] = append(itemsByWatchlist[watchlistID], item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("list watchlist items: %w", err)
	}

	for i := range watchlists {
		items := itemsByWatchlist[watchlists[i].ID]
		if items == nil {
			items = []WatchlistItem{}
		}
		watchlists[i].Items = items
	}
	return watchlists, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Watchlist, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM watchlists
		WHERE id = $1
	`, id)

	wl, err := scanWatchlist(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWatchlistNotFound
		}
		return nil, fmt.Errorf("get watchlist %s: %w", id, err)
	}

	items, err := s.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	wl.Items = items
	return wl, nil
}

func (s *PostgresStore) Create(ctx context.Context, in CreateWatchlistInput) (*Watchlist, error) {
	var description sql.NullString
	if in.Description != nil {
		description = sql.NullString{String: *in.Description, Valid: true}
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO watchlists (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_at, updated_at
	`, "wl-"+uuid.NewString(), in.Name, description)

	wl, err := scanWatchlist(row)
	if err != nil {
		return nil, fmt.Errorf("create watchlist: %w", err)
	}
	wl.Items = []WatchlistItem{}
	return wl, nil
}

func (s *PostgresStore) UpdateMetadata(ctx context.Context, id string, in UpdateWatchlistInput) (*Watchlist, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE watchlists
		SET name        = COALESCE($2, name),
		    description = CASE WHEN $3::bool THEN $4 ELSE description END,
		    updated_at  = now()
		WHERE id = $1
		RETURNING id, name, description, created_at, updated_at
	`, id, in.Name, in.Description != nil, in.Description)

	wl, err := scanWatchlist(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWatchlistNotFound
		}
		return nil, fmt.Errorf("update watchlist %s: %w", id, err)
	}

	items, err := s.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	wl.Items = items
	return wl, nil
}

func (s *PostgresStore) AddToken(ctx context.Context, id, tokenID string) (*Watchlist, error) {
	wl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, item := range wl.Items {
		if item.TokenID == tokenID {
			return nil, ErrDuplicateToken
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO watchlist_items (id, watchlist_id, kind, token_id, market_id)
		VALUES ($1, $2, 'token', $3, NULL)
	`, "wli-"+uuid.NewString(), id, tokenID)
	if err != nil {
		return nil, fmt.Errorf("add token to watchlist %s: %w", id, err)
	}

	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *PostgresStore) AddMarket(ctx context.Context, id, marketID string) (*Watchlist, error) {
	wl, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, item := range wl.Items {
		if item.MarketID == marketID {
			return nil, ErrDuplicateMarket
		}
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO watchlist_items (id, watchlist_id, kind, token_id, market_id)
		VALUES ($1, $2, 'market', NULL, $3)
	`, "wli-"+uuid.NewString(), id, marketID)
	if err != nil {
		return nil, fmt.Errorf("add market to watchlist %s: %w", id, err)
	}

	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *PostgresStore) RemoveItem(ctx context.Context, id, itemID string) (*Watchlist, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM watchlist_items
		WHERE id = $1 AND watchlist_id = $2
	`, itemID, id)
	if err != nil {
		return nil, fmt.Errorf("remove item from watchlist %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrItemNotFound
	}

	if err := s.touch(ctx, id); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	// Items are removed by ON DELETE CASCADE.
	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete watchlist %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrWatchlistNotFound
	}
	return nil
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	s.logger.Warnw("Reset called on postgres store; ignoring")
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) touch(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `UPDATE watchlists SET updated_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch watchlist %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) itemsFor(ctx context.Context, watchlistID string) ([]WatchlistItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, watchlist_id, kind, token_id, market_id, created_at
		FROM watchlist_items
		WHERE watchlist_id = $1
		ORDER BY created_at ASC
	`, watchlistID)
	if err != nil {
		return nil, fmt.Errorf("fetch items for watchlist %s: %w", watchlistID, err)
	}
	defer rows.Close()

	items := []WatchlistItem{}
	for rows.Next() {
		item, _, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watchlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch items for watchlist %s: %w", watchlistID, err)
	}
	return items, nil
}

func scanWatchlist(row pgx.Row) (*Watchlist, error) {
	var wl Watchlist
	var description sql.NullString

	if err := row.Scan(&wl.ID, &wl.Name, &description, &wl.CreatedAt, &wl.UpdatedAt); err != nil {
		return nil, err
	}
	wl.Description = description.String
	return &wl, nil
}

func scanItem(row pgx.Row) (WatchlistItem, string, error) {
	var item WatchlistItem
	var watchlistID string
	var kind string
	var tokenID, marketID sql.NullString

	if err := row.Scan(&item.ID, &watchlistID, &kind, &tokenID, &marketID, &item.CreatedAt); err != nil {
		return WatchlistItem{}, "", err
	}

	item.Kind = ItemKind(kind)
	item.TokenID = tokenID.String
	item.MarketID = marketID.String
	return item, watchlistID, nil
}
