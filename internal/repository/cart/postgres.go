package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) AddLine(ctx context.Context, in AddLineInput) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (owner_kind, owner_id, product_id, size, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (owner_kind, owner_id, product_id, size) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
RETURNING id::text, owner_kind, owner_id, product_id::text, size, quantity, created_at
`
	line, err := scanLine(r.pool.QueryRow(ctx, q,
		string(in.Owner.Kind),
		in.Owner.ID,
		in.ProductID,
		in.Size,
		in.Quantity,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		// 23503: product_id references a missing product.
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) ListItems(ctx context.Context, owner domain.Identity) ([]domain.CartItem, error) {
	const q = `
SELECT l.id::text, l.owner_kind, l.owner_id, l.product_id::text, l.size, l.quantity, l.created_at,
       p.id::text, p.sku, p.name, COALESCE(p.description, ''), p.price_cents, p.sale_price_cents,
       p.currency, p.images, p.sizes, p.stock, p.created_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.owner_kind = $1 AND l.owner_id = $2
ORDER BY l.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, string(owner.Kind), owner.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		var kind, ownerID string
		var imagesJSON, sizesJSON []byte
		if err := rows.Scan(
			&item.ID,
			&kind,
			&ownerID,
			&item.ProductID,
			&item.Size,
			&item.Quantity,
			&item.CreatedAt,
			&item.Product.ID,
			&item.Product.SKU,
			&item.Product.Name,
			&item.Product.Description,
			&item.Product.PriceCents,
			&item.Product.SalePriceCents,
			&item.Product.Currency,
			&imagesJSON,
			&sizesJSON,
			&item.Product.Stock,
			&item.Product.CreatedAt,
		); err != nil {
			return nil, err
		}
		item.Owner = domain.Identity{Kind: domain.IdentityKind(kind), ID: ownerID}
		if len(imagesJSON) > 0 {
			if err := json.Unmarshal(imagesJSON, &item.Product.Images); err != nil {
				return nil, err
			}
		}
		if len(sizesJSON) > 0 {
			if err := json.Unmarshal(sizesJSON, &item.Product.Sizes); err != nil {
				return nil, err
			}
		}
		item.UnitPriceCents = item.Product.EffectiveUnitPriceCents()
		item.TotalCents = item.UnitPriceCents * int64(item.Quantity)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) CountQuantity(ctx context.Context, owner domain.Identity) (int, error) {
	const q = `
SELECT COALESCE(SUM(quantity), 0)
FROM cart_lines
WHERE owner_kind = $1 AND owner_id = $2
`
	var count int
	if err := r.pool.QueryRow(ctx, q, string(owner.Kind), owner.ID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) UpdateQuantity(ctx context.Context, owner domain.Identity, lineID string, quantity int) error {
	const q = `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2 AND owner_kind = $3 AND owner_id = $4
`
	cmd, err := r.pool.Exec(ctx, q, quantity, lineID, string(owner.Kind), owner.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, owner domain.Identity, lineID string) error {
	const q = `
DELETE FROM cart_lines
WHERE id = $1 AND owner_kind = $2 AND owner_id = $3
`
	cmd, err := r.pool.Exec(ctx, q, lineID, string(owner.Kind), owner.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, owner domain.Identity) error {
	const q = `
DELETE FROM cart_lines
WHERE owner_kind = $1 AND owner_id = $2
`
	_, err := r.pool.Exec(ctx, q, string(owner.Kind), owner.ID)
	return err
}

func (r *postgresRepo) MergeLines(ctx context.Context, userID string, items []MergeItem) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const upsert = `
INSERT INTO cart_lines (owner_kind, owner_id, product_id, size, quantity)
VALUES ('user', $1, $2, $3, $4)
ON CONFLICT (owner_kind, owner_id, product_id, size) DO UPDATE
SET quantity = cart_lines.quantity + EXCLUDED.quantity
`
	for i, item := range items {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, item.ProductID).Scan(&exists); err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		if !exists {
			return 0, fmt.Errorf("item %d: product %s: %w", i, item.ProductID, domain.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, upsert, userID, item.ProductID, item.Size, item.Quantity); err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(items), nil
}

func scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	var kind, ownerID string
	if err := row.Scan(
		&line.ID,
		&kind,
		&ownerID,
		&line.ProductID,
		&line.Size,
		&line.Quantity,
		&line.CreatedAt,
	); err != nil {
		return nil, err
	}
	line.Owner = domain.Identity{Kind: domain.IdentityKind(kind), ID: ownerID}
	return &line, nil
}
