package repository

import (
	"context"
	"fmt"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/db"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCart(pool *pgxpool.Pool) port.CartRepository {
	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) GetCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	dbCartItems, err := r.q.GetCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("q.GetCart: %w", err)
	}

	items, err := mapGetCartRowsToDomain(dbCartItems)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("mapGetCartRowsToDomain: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Items:   items,
	}, nil
}

// AddItem inserts the item or, when a line with the same identity exists,
// adds to its quantity.
func (r *cartRepository) AddItem(ctx context.Context, ownerID string, item domain.CartItem) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("quantity[%d] is not positive", item.Quantity)
	}
	if item.Quantity > domain.MaxQuantity {
		return fmt.Errorf("quantity[%d] is out of range", item.Quantity)
	}

	if err := r.q.AddItem(ctx, mapCartItemToParams(ownerID, item)); err != nil {
		return fmt.Errorf("q.AddItem: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, ownerID string, key domain.LineKey) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	rowsAffected, err := r.q.DeleteItem(ctx, db.DeleteItemParams{
		OwnerID:     ownerID,
		ProductID:   key.ProductID,
		VariationID: key.VariationID,
		ColorID:     key.ColorID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DeleteItem: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *cartRepository) CountItems(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}

	count, err := r.q.CountItems(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("q.CountItems: %w", err)
	}

	return count, nil
}

// MergeGuestLines folds guest cart lines into the owner's cart in a single
// transaction. Quantities of lines with the same identity are added and
// saturate at domain.MaxQuantity.
func (r *cartRepository) MergeGuestLines(ctx context.Context, ownerID string, lines []domain.CartLine, cur currency.Unit) (int, error) {
	if ownerID == "" {
		return 0, fmt.Errorf("ownerID is empty")
	}
	if len(lines) == 0 {
		return 0, nil
	}

	return withTx(ctx, r.pool, r.q, func(q *db.Queries) (int, error) {
		merged := 0
		for _, line := range lines {
			if line.Quantity <= 0 {
				continue
			}

			item := domain.CartItem{
				ProductID:   line.ProductID,
				VariationID: line.VariationID,
				ColorID:     line.ColorID,
				Quantity:    min(line.Quantity, domain.MaxQuantity),
				Price:       domain.NewMoney(line.UnitPrice(), cur),
			}
			if err := q.AddItem(ctx, mapCartItemToParams(ownerID, item)); err != nil {
				return 0, fmt.Errorf("q.AddItem[%s]: %w", line.ProductID, err)
			}
			merged++
		}
		return merged, nil
	})
}

func mapCartItemToParams(ownerID string, item domain.CartItem) db.AddItemParams {
	return db.AddItemParams{
		OwnerID:       ownerID,
		ProductID:     item.ProductID,
		VariationID:   item.VariationID,
		ColorID:       item.ColorID,
		Quantity:      int32(item.Quantity),
		PriceAmount:   item.Price.Amount,
		PriceCurrency: item.Price.Currency.String(),
	}
}

func mapGetCartRowToDomain(row db.GetCartRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		ProductID:   row.ProductID,
		VariationID: row.VariationID,
		ColorID:     row.ColorID,
		Quantity:    int(row.Quantity),
		Price:       domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		CreatedAt:   row.CreatedAt,
	}, nil
}

func mapGetCartRowsToDomain(rows []db.GetCartRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
