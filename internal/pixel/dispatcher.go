// Package pixel forwards storefront events to marketing pixels.
//
// Each pixel is optional. A pixel that is not configured is skipped, and a
// pixel that fails is logged and forgotten.
package pixel

import (
	"context"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/notify"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Dispatcher struct {
	trackers []port.Tracker
	group    *notify.Group
	log      logrus.FieldLogger
	now      func() time.Time
}

func NewDispatcher(group *notify.Group, log logrus.FieldLogger, trackers ...port.Tracker) *Dispatcher {
	d := &Dispatcher{
		group: group,
		log:   log.WithField("component", "pixel"),
		now:   time.Now,
	}
	for _, t := range trackers {
		if isNil(t) {
			continue
		}
		d.trackers = append(d.trackers, t)
	}
	return d
}

// Trackers lists the names of the configured pixels.
func (d *Dispatcher) Trackers() []string {
	names := make([]string, 0, len(d.trackers))
	for _, t := range d.trackers {
		names = append(names, t.Name())
	}
	return names
}

// Client carries request details some pixels use for matching.
type Client struct {
	IP        string
	UserAgent string
	PagePath  string
}

// TrackAddToCart reports quantity units of productID worth value in total.
func (d *Dispatcher) TrackAddToCart(ctx context.Context, c Client, productID string, quantity int, value domain.Money) {
	d.Track(ctx, c, domain.PixelEvent{
		Name:       domain.PixelAddToCart,
		ContentIDs: []string{productID},
		Value:      decimal.NewNullDecimal(value.Amount),
		Currency:   value.Currency,
		NumItems:   quantity,
	})
}

func (d *Dispatcher) TrackInitiateCheckout(ctx context.Context, c Client, contentIDs []string, value domain.Money) {
	d.Track(ctx, c, domain.PixelEvent{
		Name:       domain.PixelInitiateCheckout,
		ContentIDs: contentIDs,
		Value:      decimal.NewNullDecimal(value.Amount),
		Currency:   value.Currency,
		NumItems:   len(contentIDs),
	})
}

func (d *Dispatcher) TrackPurchase(ctx context.Context, c Client, orderID string, contentIDs []string, value domain.Money) {
	d.Track(ctx, c, domain.PixelEvent{
		Name:       domain.PixelPurchase,
		ContentIDs: contentIDs,
		Value:      decimal.NewNullDecimal(value.Amount),
		Currency:   value.Currency,
		NumItems:   len(contentIDs),
		OrderID:    orderID,
	})
}

func (d *Dispatcher) TrackPageView(ctx context.Context, c Client) {
	d.Track(ctx, c, domain.PixelEvent{Name: domain.PixelPageView})
}

// Track sends event to every configured pixel without waiting.
func (d *Dispatcher) Track(ctx context.Context, c Client, event domain.PixelEvent) {
	if len(d.trackers) == 0 {
		return
	}

	if event.EventTime.IsZero() {
		event.EventTime = d.now()
	}
	if event.PagePath == "" {
		event.PagePath = c.PagePath
	}
	event.ClientIP = c.IP
	event.UserAgent = c.UserAgent

	for _, t := range d.trackers {
		d.group.Go(ctx, "pixel."+t.Name()+"."+string(event.Name), func(ctx context.Context) error {
			return t.Track(ctx, event)
		})
	}
}

// isNil catches typed nil pointers such as a (*Meta)(nil) returned by an
// unconfigured constructor.
func isNil(t port.Tracker) bool {
	switch v := t.(type) {
	case nil:
		return true
	case *Meta:
		return v == nil
	case *TikTok:
		return v == nil
	}
	return false
}
