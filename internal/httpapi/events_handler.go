package httpapi

import (
	"net/http"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type eventRequest struct {
	EventType  domain.EventType    `json:"event_type"`
	PagePath   string              `json:"page_path"`
	Metadata   map[string]any      `json:"metadata"`
	OrderID    string              `json:"order_id"`
	ContentIDs []string            `json:"content_ids"`
	Quantity   int                 `json:"quantity"`
	Value      decimal.NullDecimal `json:"value"`
}

// trackEvent records an analytics event and forwards the matching pixel
// event. The response never waits on either.
func (s *Server) trackEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.EventType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event type"})
		return
	}

	ctx := c.Request.Context()
	path := pagePath(c, req.PagePath)
	s.analytics.Track(ctx, sessionKV(c), req.EventType, path, req.Metadata)

	client := pixelClient(c, path)
	value := domain.NewMoney(req.Value.Decimal, s.cfg.StoreCurrency)
	switch req.EventType {
	case domain.EventPageView:
		s.pixels.TrackPageView(ctx, client)
	case domain.EventAddToCart:
		if len(req.ContentIDs) > 0 {
			s.pixels.TrackAddToCart(ctx, client, req.ContentIDs[0], max(req.Quantity, 1), value)
		}
	case domain.EventCheckoutStart:
		s.pixels.TrackInitiateCheckout(ctx, client, req.ContentIDs, value)
	case domain.EventPurchase:
		s.pixels.TrackPurchase(ctx, client, req.OrderID, req.ContentIDs, value)
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}
