// Package guestcart keeps the cart of an anonymous visitor in its session
// storage slot.
//
// Every operation reads the slot, applies the change and writes the whole
// cart back. Two writers sharing a session can interleave and the last
// write wins. Storage faults are logged and never returned: a broken slot
// reads as an empty cart and a failed write leaves the previous state.
package guestcart

import (
	"context"
	"encoding/json"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StorageKey is the session slot holding the JSON encoded cart.
const StorageKey = "guest_cart"

type Store struct {
	kv  port.KVStore
	log logrus.FieldLogger
}

var _ port.GuestCartStore = (*Store)(nil)

func New(kv port.KVStore, log logrus.FieldLogger) *Store {
	return &Store{
		kv:  kv,
		log: log.WithField("component", "guestcart"),
	}
}

// Read returns a snapshot of the cart in insertion order.
func (s *Store) Read(ctx context.Context) []domain.CartLine {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.WithError(err).Warn("guest cart unavailable, using empty cart")
		return []domain.CartLine{}
	}
	if !ok || raw == "" {
		return []domain.CartLine{}
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.WithError(err).Warn("guest cart is corrupt, using empty cart")
		return []domain.CartLine{}
	}

	return normalize(lines)
}

// Add merges line into the cart. A line with the same identity has its
// quantity increased by line.Quantity, otherwise line is appended.
func (s *Store) Add(ctx context.Context, line domain.CartLine) {
	if line.ProductID == uuid.Nil || line.Quantity <= 0 || line.Quantity > domain.MaxQuantity {
		s.log.WithFields(logrus.Fields{
			"product_id": line.ProductID,
			"quantity":   line.Quantity,
		}).Warn("ignoring invalid guest cart line")
		return
	}

	lines := s.Read(ctx)
	if idx := indexOf(lines, line.Key()); idx >= 0 {
		sum, capped := addQuantity(lines[idx].Quantity, line.Quantity)
		if capped {
			s.log.WithField("product_id", line.ProductID).Warn("guest cart line quantity capped")
		}
		lines[idx].Quantity = sum
	} else {
		lines = append(lines, line)
	}

	s.write(ctx, lines)
}

// SetQuantity overwrites the quantity of the line with the given identity.
// A quantity <= 0 removes the line. Unknown identities are ignored.
func (s *Store) SetQuantity(ctx context.Context, key domain.LineKey, quantity int) {
	lines := s.Read(ctx)
	idx := indexOf(lines, key)
	if idx < 0 {
		return
	}

	switch {
	case quantity <= 0:
		lines = append(lines[:idx], lines[idx+1:]...)
	case quantity > domain.MaxQuantity:
		s.log.WithField("quantity", quantity).Warn("guest cart line quantity capped")
		lines[idx].Quantity = domain.MaxQuantity
	default:
		lines[idx].Quantity = quantity
	}

	s.write(ctx, lines)
}

// Remove deletes the line with the given identity.
func (s *Store) Remove(ctx context.Context, key domain.LineKey) {
	s.SetQuantity(ctx, key, 0)
}

// RemoveProduct deletes every line of the product, whatever its variation
// or color.
func (s *Store) RemoveProduct(ctx context.Context, productID uuid.UUID) {
	lines := s.Read(ctx)

	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return
	}

	s.write(ctx, kept)
}

func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.log.WithError(err).Error("failed to clear guest cart")
	}
}

// Count is the number of distinct lines.
func (s *Store) Count(ctx context.Context) int {
	return len(s.Read(ctx))
}

func (s *Store) write(ctx context.Context, lines []domain.CartLine) {
	raw, err := json.Marshal(lines)
	if err != nil {
		s.log.WithError(err).Error("failed to encode guest cart")
		return
	}

	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		s.log.WithError(err).Error("failed to save guest cart")
	}
}

func indexOf(lines []domain.CartLine, key domain.LineKey) int {
	for i := range lines {
		if lines[i].Key() == key {
			return i
		}
	}
	return -1
}

// addQuantity adds two quantities in [1, MaxQuantity], saturating at
// MaxQuantity.
func addQuantity(a, b int) (int, bool) {
	if b > domain.MaxQuantity-a {
		return domain.MaxQuantity, true
	}
	return a + b, false
}

// normalize drops lines that must not be persisted, caps oversized
// quantities and folds duplicate identities into their first occurrence.
func normalize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil || line.Quantity <= 0 {
			continue
		}
		line.Quantity = min(line.Quantity, domain.MaxQuantity)
		if idx := indexOf(out, line.Key()); idx >= 0 {
			out[idx].Quantity, _ = addQuantity(out[idx].Quantity, line.Quantity)
			continue
		}
		out = append(out, line)
	}
	return out
}
