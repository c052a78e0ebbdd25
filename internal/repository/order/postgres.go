package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `id::text, number, user_id::text, status, total_cents, currency,
       address, phone, city, state, pincode, country, notes, tracking_number, payment_ref, checkout_token, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (number, user_id, status, total_cents, currency, address, phone, city, state, pincode, country, notes, payment_ref, checkout_token)
VALUES ($1, $2, 'pending', $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + orderColumns + `
`
	ord, err := scanOrder(tx.QueryRow(ctx, insertOrder,
		in.Number,
		in.UserID,
		in.TotalCents,
		in.Currency,
		in.Shipping.Address,
		in.Shipping.Phone,
		in.Shipping.City,
		in.Shipping.State,
		in.Shipping.Pincode,
		in.Shipping.Country,
		in.Notes,
		in.PaymentRef,
		in.CheckoutToken,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert number=%s error=%v", in.Number, err)
		return nil, err
	}

	const insertLine = `
INSERT INTO order_lines (order_id, product_id, product_name, unit_price_cents, quantity, size)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	for _, line := range in.Lines {
		var lineID string
		if err := tx.QueryRow(ctx, insertLine,
			ord.ID,
			line.ProductID,
			line.ProductName,
			line.UnitPriceCents,
			line.Quantity,
			line.Size,
		).Scan(&lineID); err != nil {
			r.logger.Printf("order repo: insert line order=%s error=%v", ord.ID, err)
			return nil, err
		}
		ord.Lines = append(ord.Lines, domain.OrderLine{
			ID:             lineID,
			OrderID:        ord.ID,
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			Size:           line.Size,
		})
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE owner_kind = 'user' AND owner_id = $1`, in.UserID); err != nil {
		r.logger.Printf("order repo: clear cart user=%s error=%v", in.UserID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	return r.fetchOrder(ctx, q, id)
}

func (r *postgresRepo) GetByCheckoutToken(ctx context.Context, token string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE checkout_token = $1
`
	return r.fetchOrder(ctx, q, token)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *postgresRepo) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE number = $1)`, number).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetTrackingNumber(ctx context.Context, id, trackingNumber string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET tracking_number = $1 WHERE id = $2`, trackingNumber, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, arg interface{}) (*domain.Order, error) {
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		// Lookups take client-supplied ids; a value the uuid column cannot
		// parse is a miss.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, order_id::text, COALESCE(product_id::text, ''), product_name, unit_price_cents, quantity, size
FROM order_lines
WHERE order_id = $1
`
	rows, err := r.pool.Query(ctx, linesQuery, ord.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.ProductName,
			&line.UnitPriceCents,
			&line.Quantity,
			&line.Size,
		); err != nil {
			return nil, err
		}
		ord.Lines = append(ord.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ord, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var ord domain.Order
	var status string
	if err := row.Scan(
		&ord.ID,
		&ord.Number,
		&ord.UserID,
		&status,
		&ord.TotalCents,
		&ord.Currency,
		&ord.Shipping.Address,
		&ord.Shipping.Phone,
		&ord.Shipping.City,
		&ord.Shipping.State,
		&ord.Shipping.Pincode,
		&ord.Shipping.Country,
		&ord.Notes,
		&ord.TrackingNumber,
		&ord.PaymentRef,
		&ord.CheckoutToken,
		&ord.CreatedAt,
	); err != nil {
		return nil, err
	}
	ord.Status = domain.OrderStatus(status)
	return &ord, nil
}
