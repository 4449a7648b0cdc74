package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/pricing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type saleRequest struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.NullUUID   `json:"product_id"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	StartsAt           time.Time       `json:"starts_at"`
	EndsAt             time.Time       `json:"ends_at"`
}

type quoteRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Sales     []saleRequest   `json:"sales"`
	// At overrides the evaluation time; zero means now.
	At time.Time `json:"at"`
}

type quoteResponse struct {
	OriginalPrice      decimal.Decimal     `json:"original_price"`
	FinalPrice         decimal.Decimal     `json:"final_price"`
	DiscountPercentage decimal.NullDecimal `json:"discount_percentage"`
	Discounted         bool                `json:"discounted"`
	Currency           string              `json:"currency"`
}

func toSales(reqs []saleRequest) ([]domain.Sale, error) {
	sales := make([]domain.Sale, 0, len(reqs))
	for i, r := range reqs {
		sale, err := domain.NewSale(r.ID, r.ProductID, r.DiscountPercentage, r.StartsAt, r.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("sales[%d]: %w", i, err)
		}
		sales = append(sales, sale)
	}
	return sales, nil
}

// resolvePrice applies the best active sales for productID at the given time.
func (s *Server) resolvePrice(productID uuid.UUID, price decimal.Decimal, reqs []saleRequest, at time.Time) (pricing.Result, error) {
	sales, err := toSales(reqs)
	if err != nil {
		return pricing.Result{}, err
	}
	if at.IsZero() {
		at = time.Now()
	}

	productSale, globalSale := pricing.ActiveSales(sales, productID, at)
	return pricing.CalculateSalePrice(price, productSale, globalSale, s.cfg.SalesEnabled), nil
}

func (s *Server) quotePrice(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}

	res, err := s.resolvePrice(req.ProductID, req.Price, req.Sales, req.At)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, quoteResponse{
		OriginalPrice:      req.Price,
		FinalPrice:         res.FinalPrice,
		DiscountPercentage: res.Discount,
		Discounted:         res.Discounted(),
		Currency:           s.cfg.StoreCurrency.String(),
	})
}
