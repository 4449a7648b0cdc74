package httpapi

import (
	"net/http"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type lineKeyRequest struct {
	ProductID   uuid.UUID     `json:"product_id"`
	VariationID uuid.NullUUID `json:"variation_id"`
	ColorID     uuid.NullUUID `json:"color_id"`
}

func (r lineKeyRequest) key() domain.LineKey {
	return domain.LineKey{ProductID: r.ProductID, VariationID: r.VariationID, ColorID: r.ColorID}
}

type setQuantityRequest struct {
	lineKeyRequest
	Quantity int `json:"quantity"`
}

type addLineRequest struct {
	domain.CartLine
	PagePath string `json:"page_path"`
}

type cartResponse struct {
	Items    []domain.CartLine `json:"items"`
	Count    int               `json:"count"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Currency string            `json:"currency"`
}

func (s *Server) cartResponse(lines []domain.CartLine) cartResponse {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return cartResponse{
		Items:    lines,
		Count:    len(lines),
		Subtotal: subtotal.Round(2),
		Currency: s.cfg.StoreCurrency.String(),
	}
}

func (s *Server) getCart(c *gin.Context) {
	lines := s.guestCart(sessionKV(c)).Read(c.Request.Context())
	c.JSON(http.StatusOK, s.cartResponse(lines))
}

func (s *Server) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	line := req.CartLine
	if line.ProductID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	if line.Quantity <= 0 || line.Quantity > domain.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is out of range"})
		return
	}

	ctx := c.Request.Context()
	kv := sessionKV(c)
	store := s.guestCart(kv)
	store.Add(ctx, line)

	path := pagePath(c, req.PagePath)
	s.analytics.Track(ctx, kv, domain.EventAddToCart, path, map[string]any{
		"product_id": line.ProductID.String(),
		"quantity":   line.Quantity,
		"price":      line.UnitPrice().StringFixed(2),
	})
	s.pixels.TrackAddToCart(ctx, pixelClient(c, path), line.ProductID.String(), line.Quantity,
		domain.NewMoney(line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity))), s.cfg.StoreCurrency))

	c.JSON(http.StatusOK, s.cartResponse(store.Read(ctx)))
}

func (s *Server) setLineQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ProductID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}
	if req.Quantity > domain.MaxQuantity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is out of range"})
		return
	}

	ctx := c.Request.Context()
	store := s.guestCart(sessionKV(c))
	store.SetQuantity(ctx, req.key(), req.Quantity)

	c.JSON(http.StatusOK, s.cartResponse(store.Read(ctx)))
}

func (s *Server) removeLine(c *gin.Context) {
	var req lineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ProductID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	ctx := c.Request.Context()
	store := s.guestCart(sessionKV(c))
	store.Remove(ctx, req.key())

	c.JSON(http.StatusOK, s.cartResponse(store.Read(ctx)))
}

func (s *Server) removeProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()
	store := s.guestCart(sessionKV(c))
	store.RemoveProduct(ctx, productID)

	c.JSON(http.StatusOK, s.cartResponse(store.Read(ctx)))
}

func (s *Server) clearCart(c *gin.Context) {
	s.guestCart(sessionKV(c)).Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (s *Server) cartBadge(c *gin.Context) {
	ctx := c.Request.Context()
	count := s.badge.Count(ctx, sessionKV(c), identity.UserID(ctx))
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// mergeCart folds the guest cart into the signed-in user's server cart and
// empties the guest cart once the merge committed.
func (s *Server) mergeCart(c *gin.Context) {
	ctx := c.Request.Context()
	userID := identity.UserID(ctx)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
		return
	}
	if s.carts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server cart is not available"})
		return
	}

	store := s.guestCart(sessionKV(c))
	lines := store.Read(ctx)
	if len(lines) == 0 {
		c.JSON(http.StatusOK, gin.H{"merged": 0})
		return
	}

	merged, err := s.carts.MergeGuestLines(ctx, userID, lines, s.cfg.StoreCurrency)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("failed to merge guest cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge cart"})
		return
	}
	store.Clear(ctx)

	c.JSON(http.StatusOK, gin.H{"merged": merged})
}
