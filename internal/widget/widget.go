// Package widget holds the state behind the floating cart badge and
// contact button.
package widget

import (
	"context"
	"strings"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/sirupsen/logrus"
)

type Position string

const (
	PositionDefault Position = "default"
	// PositionRaised lifts the buttons above a bottom action bar or the
	// back-to-top button.
	PositionRaised Position = "raised"
)

// ScrollThreshold is the offset at which the back-to-top button appears.
const ScrollThreshold = 300

// Pages with a bottom action bar. Product pages always carry a slug; the
// cart and checkout sections match themselves and their subpaths only.
var (
	barPrefixes = []string{"/product/"}
	barSections = []string{"/cart", "/checkout"}
)

func ResolvePosition(scrollY int, route string) Position {
	if hasBar(route) {
		return PositionRaised
	}
	if scrollY >= ScrollThreshold {
		return PositionRaised
	}
	return PositionDefault
}

// Badge counts cart lines for the floating cart button.
type Badge struct {
	guest  func(kv port.KVStore) port.GuestCartStore
	remote port.CartCounter
	log    logrus.FieldLogger
}

// NewBadge takes a nil remote when there is no server side cart; signed-in
// users then see their guest cart count.
func NewBadge(guest func(kv port.KVStore) port.GuestCartStore, remote port.CartCounter, log logrus.FieldLogger) *Badge {
	return &Badge{
		guest:  guest,
		remote: remote,
		log:    log.WithField("component", "badge"),
	}
}

func (b *Badge) Count(ctx context.Context, kv port.KVStore, userID string) int {
	if userID == "" || b.remote == nil {
		return b.guest(kv).Count(ctx)
	}

	n, err := b.remote.CountItems(ctx, userID)
	if err != nil {
		b.log.WithError(err).WithField("user_id", userID).Warn("failed to count cart items")
		return 0
	}
	return int(n)
}

func hasBar(route string) bool {
	for _, prefix := range barPrefixes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	for _, section := range barSections {
		if route == section || strings.HasPrefix(route, section+"/") {
			return true
		}
	}
	return false
}
