package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockroom-app/stockroom/internal/platform/httpx"
	"github.com/stockroom-app/stockroom/internal/shared"
)

const itemColumns = `id, owner_id, name, description, sku, category, quantity, unit_price, low_stock_threshold, created_at, updated_at`

// Repository persists inventory items in PostgreSQL. Every statement is
// scoped to the owning user, so callers cannot reach rows they do not own
// regardless of what the service layer passes in.
type Repository interface {
	List(ctx context.Context, ownerID int64) ([]Item, error)
	Insert(ctx context.Context, item Item) (Item, error)
	UpdateQuantity(ctx context.Context, ownerID int64, id uuid.UUID, quantity int) (Item, error)
	Delete(ctx context.Context, ownerID int64, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+`
FROM inventory_items
WHERE owner_id = $1
ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("inventory: scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("inventory: list rows: %w", err)
	}
	return items, nil
}

func (r *repository) Insert(ctx context.Context, item Item) (Item, error) {
	row := r.pool.QueryRow(ctx, `INSERT INTO inventory_items
(owner_id, name, description, sku, category, quantity, unit_price, low_stock_threshold)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING `+itemColumns,
		item.OwnerID, item.Name, item.Description, item.SKU, item.Category,
		item.Quantity, item.UnitPrice, item.LowStockThreshold)
	created, err := scanItem(row)
	if err != nil {
		return Item{}, storeError("insert", err)
	}
	return created, nil
}

func (r *repository) UpdateQuantity(ctx context.Context, ownerID int64, id uuid.UUID, quantity int) (Item, error) {
	row := r.pool.QueryRow(ctx, `UPDATE inventory_items
SET quantity = $3
WHERE id = $1 AND owner_id = $2
RETURNING `+itemColumns, id, ownerID, quantity)
	updated, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, shared.ErrNotFound
		}
		return Item{}, storeError("update quantity", err)
	}
	return updated, nil
}

func (r *repository) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return storeError("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.SKU,
		&item.Category, &item.Quantity, &item.UnitPrice, &item.LowStockThreshold,
		&item.CreatedAt, &item.UpdatedAt)
	return item, err
}

// storeError folds PostgreSQL error codes into the shared taxonomy.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("inventory: %s: %w", op, httpx.ErrDuplicate)
		case "23502", "23514":
			return fmt.Errorf("inventory: %s: %w", op, httpx.ErrValidation)
		}
	}
	return fmt.Errorf("inventory: %s: %w", op, err)
}
