package cart

import (
	"context"
	"errors"
	"os"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE order_lines, orders, cart_lines, tokens, products, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, sku string, priceCents int64) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, price_cents, currency) VALUES ($1, $2, $3, 'INR') RETURNING id::text`,
		sku, "Product "+sku, priceCents,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func TestPostgres_AddLineIncrementsExisting(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "SKU-ADD", 500)
	repo := NewPostgres(pool)
	owner := domain.AnonymousIdentity("sess-add")

	first, err := repo.AddLine(ctx, AddLineInput{Owner: owner, ProductID: productID, Size: "M", Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	second, err := repo.AddLine(ctx, AddLineInput{Owner: owner, ProductID: productID, Size: "M", Quantity: 3})
	if err != nil {
		t.Fatalf("AddLine repeat: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same line, got %s and %s", first.ID, second.ID)
	}
	if second.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", second.Quantity)
	}

	other, err := repo.AddLine(ctx, AddLineInput{Owner: owner, ProductID: productID, Size: "L", Quantity: 1})
	if err != nil {
		t.Fatalf("AddLine other size: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("distinct size must create a distinct line")
	}

	count, err := repo.CountQuantity(ctx, owner)
	if err != nil {
		t.Fatalf("CountQuantity: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected total quantity 6, got %d", count)
	}
}

func TestPostgres_AddLineUnknownProduct(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	_, err := repo.AddLine(ctx, AddLineInput{
		Owner:     domain.UserIdentity("00000000-0000-0000-0000-000000000001"),
		ProductID: "00000000-0000-0000-0000-0000000000ff",
		Quantity:  1,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_OwnersAreIsolated(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "SKU-ISO", 500)
	repo := NewPostgres(pool)

	// Same raw id under both kinds must address two different carts.
	userOwner := domain.UserIdentity("shared-id")
	anonOwner := domain.AnonymousIdentity("shared-id")

	line, err := repo.AddLine(ctx, AddLineInput{Owner: anonOwner, ProductID: productID, Quantity: 2})
	if err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	count, err := repo.CountQuantity(ctx, userOwner)
	if err != nil {
		t.Fatalf("CountQuantity: %v", err)
	}
	if count != 0 {
		t.Fatalf("user identity must not see the anonymous cart, got %d", count)
	}

	if err := repo.UpdateQuantity(ctx, userOwner, line.ID, 9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-identity update must fail with ErrNotFound, got %v", err)
	}
	if err := repo.RemoveLine(ctx, userOwner, line.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-identity remove must fail with ErrNotFound, got %v", err)
	}
}

func TestPostgres_ListItemsComputesEffectivePrice(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	var productID string
	err := pool.QueryRow(ctx,
		`INSERT INTO products (sku, name, price_cents, sale_price_cents, currency) VALUES ('SKU-SALE', 'On Sale', 1200, 1000, 'INR') RETURNING id::text`,
	).Scan(&productID)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}

	repo := NewPostgres(pool)
	owner := domain.UserIdentity("u-list")
	if _, err := repo.AddLine(ctx, AddLineInput{Owner: owner, ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	items, err := repo.ListItems(ctx, owner)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].UnitPriceCents != 1000 {
		t.Fatalf("expected sale price 1000, got %d", items[0].UnitPriceCents)
	}
	if items[0].TotalCents != 2000 {
		t.Fatalf("expected line total 2000, got %d", items[0].TotalCents)
	}
}

func TestPostgres_MergeLinesAllOrNothing(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	p1 := insertProduct(ctx, t, pool, "SKU-M1", 500)
	p2 := insertProduct(ctx, t, pool, "SKU-M2", 700)
	repo := NewPostgres(pool)
	owner := domain.UserIdentity("u-merge")

	if _, err := repo.AddLine(ctx, AddLineInput{Owner: owner, ProductID: p1, Quantity: 1}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	// Middle item references a missing product: nothing may stick.
	_, err := repo.MergeLines(ctx, "u-merge", []MergeItem{
		{ProductID: p1, Quantity: 2},
		{ProductID: "00000000-0000-0000-0000-0000000000ff", Quantity: 1},
		{ProductID: p2, Quantity: 1},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from bad item, got %v", err)
	}

	count, err := repo.CountQuantity(ctx, owner)
	if err != nil {
		t.Fatalf("CountQuantity: %v", err)
	}
	if count != 1 {
		t.Fatalf("failed merge must leave the cart untouched, got quantity %d", count)
	}

	// A clean batch applies with addLine semantics.
	n, err := repo.MergeLines(ctx, "u-merge", []MergeItem{
		{ProductID: p1, Quantity: 2},
		{ProductID: p2, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("MergeLines: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 processed items, got %d", n)
	}

	count, err = repo.CountQuantity(ctx, owner)
	if err != nil {
		t.Fatalf("CountQuantity: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected total quantity 4 after merge, got %d", count)
	}
}
