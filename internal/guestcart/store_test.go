package guestcart_test

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/guestcart"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/kvstore"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*guestcart.Store, port.KVStore, *logtest.Hook) {
	t.Helper()

	log, hook := logtest.NewNullLogger()
	kv := kvstore.NewMemory().Session(gofakeit.UUID())
	return guestcart.New(kv, log), kv, hook
}

func TestAddMergesSameIdentity(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	line := randomLine()
	line.Quantity = 2
	store.Add(ctx, line)

	again := line
	again.Quantity = 3
	store.Add(ctx, again)

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddKeepsDistinctVariants(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	productID := uuid.New()
	v1 := randomLine()
	v1.ProductID = productID
	v1.VariationID = validID()
	v2 := v1
	v2.VariationID = validID()
	red := v1
	red.ColorID = validID()

	store.Add(ctx, v1)
	store.Add(ctx, v2)
	store.Add(ctx, red)

	lines := store.Read(ctx)
	require.Len(t, lines, 3)
	assert.Equal(t, v1.Key(), lines[0].Key())
	assert.Equal(t, v2.Key(), lines[1].Key())
	assert.Equal(t, red.Key(), lines[2].Key())
}

func TestAddIdentityUniqueness(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	products := []uuid.UUID{uuid.New(), uuid.New()}
	variations := []uuid.NullUUID{{}, validID()}
	colors := []uuid.NullUUID{{}, validID(), validID()}

	want := map[domain.LineKey]int{}
	for range 200 {
		line := randomLine()
		line.ProductID = products[gofakeit.Number(0, len(products)-1)]
		line.VariationID = variations[gofakeit.Number(0, len(variations)-1)]
		line.ColorID = colors[gofakeit.Number(0, len(colors)-1)]
		store.Add(ctx, line)
		want[line.Key()] += line.Quantity
	}

	lines := store.Read(ctx)
	seen := map[domain.LineKey]bool{}
	for _, line := range lines {
		require.False(t, seen[line.Key()], "duplicate identity %+v", line.Key())
		seen[line.Key()] = true
		assert.Equal(t, want[line.Key()], line.Quantity)
	}
	assert.Len(t, lines, len(want))
}

func TestAddPreservesPositionOnUpdate(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	first, second := randomLine(), randomLine()
	store.Add(ctx, first)
	store.Add(ctx, second)
	store.Add(ctx, first)

	lines := store.Read(ctx)
	require.Len(t, lines, 2)
	assert.Equal(t, first.ProductID, lines[0].ProductID)
	assert.Equal(t, 2*first.Quantity, lines[0].Quantity)
	assert.Equal(t, second.ProductID, lines[1].ProductID)
}

func TestAddRejectsInvalidLine(t *testing.T) {
	ctx := t.Context()
	store, kv, hook := newStore(t)

	zero := randomLine()
	zero.Quantity = 0
	store.Add(ctx, zero)

	noProduct := randomLine()
	noProduct.ProductID = uuid.Nil
	store.Add(ctx, noProduct)

	_, ok, err := kv.Get(ctx, guestcart.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "nothing must be written")
	assert.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestAddSaturatesQuantity(t *testing.T) {
	ctx := t.Context()
	store, kv, hook := newStore(t)

	line := randomLine()
	line.Quantity = domain.MaxQuantity
	store.Add(ctx, line)

	one := line
	one.Quantity = 1
	store.Add(ctx, one)

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, domain.MaxQuantity, lines[0].Quantity)
	assert.Equal(t, "guest cart line quantity capped", hook.LastEntry().Message)

	huge := randomLine()
	huge.Quantity = math.MaxInt
	store.Add(ctx, huge)
	assert.Len(t, store.Read(ctx), 1, "oversized line must be rejected")

	raw, _, err := kv.Get(ctx, guestcart.StorageKey)
	require.NoError(t, err)
	assert.NotContains(t, raw, `"quantity":-`)
}

func TestSetQuantityCapsOversizedValue(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	line := randomLine()
	store.Add(ctx, line)
	store.SetQuantity(ctx, line.Key(), math.MaxInt)

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, domain.MaxQuantity, lines[0].Quantity)
}

func TestReadCapsStoredQuantities(t *testing.T) {
	ctx := t.Context()
	store, kv, _ := newStore(t)

	p1 := uuid.New()
	big := strconv.Itoa(domain.MaxQuantity)
	raw := `[
		{"product_id":"` + p1.String() + `","quantity":` + big + `,"product_price":"1"},
		{"product_id":"` + p1.String() + `","quantity":` + big + `,"product_price":"1"}
	]`
	require.NoError(t, kv.Set(ctx, guestcart.StorageKey, raw))

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, domain.MaxQuantity, lines[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	productID := uuid.New()
	plain := randomLine()
	plain.ProductID = productID
	variant := plain
	variant.VariationID = validID()
	other := randomLine()

	tests := []struct {
		name     string
		key      domain.LineKey
		quantity int
		want     []int
	}{
		{
			name:     "overwrite quantity",
			key:      variant.Key(),
			quantity: 7,
			want:     []int{plain.Quantity, 7, other.Quantity},
		},
		{
			name:     "zero removes line",
			key:      plain.Key(),
			quantity: 0,
			want:     []int{variant.Quantity, other.Quantity},
		},
		{
			name:     "negative removes line",
			key:      other.Key(),
			quantity: -1,
			want:     []int{plain.Quantity, variant.Quantity},
		},
		{
			name:     "unknown identity is a no-op",
			key:      domain.LineKey{ProductID: productID, ColorID: validID()},
			quantity: 9,
			want:     []int{plain.Quantity, variant.Quantity, other.Quantity},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store, _, _ := newStore(t)
			store.Add(ctx, plain)
			store.Add(ctx, variant)
			store.Add(ctx, other)

			store.SetQuantity(ctx, tt.key, tt.quantity)

			lines := store.Read(ctx)
			got := make([]int, 0, len(lines))
			for _, line := range lines {
				got = append(got, line.Quantity)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetQuantityZeroRemovesExactlyOneLine(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	p1 := randomLine()
	store.Add(ctx, p1)
	store.Add(ctx, randomLine())
	before := store.Count(ctx)

	store.SetQuantity(ctx, p1.Key(), 0)

	assert.Equal(t, before-1, store.Count(ctx))
	for _, line := range store.Read(ctx) {
		assert.NotEqual(t, p1.ProductID, line.ProductID)
	}
}

func TestRemoveTargetsOneVariant(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	v1 := randomLine()
	v1.VariationID = validID()
	v2 := v1
	v2.VariationID = validID()
	store.Add(ctx, v1)
	store.Add(ctx, v2)

	store.Remove(ctx, v1.Key())

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, v2.Key(), lines[0].Key())
}

func TestRemoveProductDropsAllVariants(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	v1 := randomLine()
	v1.VariationID = validID()
	v2 := v1
	v2.VariationID = validID()
	other := randomLine()
	store.Add(ctx, v1)
	store.Add(ctx, other)
	store.Add(ctx, v2)

	store.RemoveProduct(ctx, v1.ProductID)

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, other.Key(), lines[0].Key())
}

func TestClearEmptiesCart(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	store.Add(ctx, randomLine())
	store.Add(ctx, randomLine())
	store.Clear(ctx)

	assert.Empty(t, store.Read(ctx))

	store.Clear(ctx)
	assert.Empty(t, store.Read(ctx))
}

func TestReadRecoversFromBadStorage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantLog bool
	}{
		{name: "not json", raw: "definitely not json", wantLog: true},
		{name: "json object", raw: `{"product_id":"x"}`, wantLog: true},
		{name: "bad product id", raw: `[{"product_id":"p1","quantity":1}]`, wantLog: true},
		{name: "json null", raw: `null`},
		{name: "empty string", raw: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store, kv, hook := newStore(t)
			require.NoError(t, kv.Set(ctx, guestcart.StorageKey, tt.raw))

			lines := store.Read(ctx)

			assert.NotNil(t, lines)
			assert.Empty(t, lines)
			if tt.wantLog {
				require.NotNil(t, hook.LastEntry())
				assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
			}
		})
	}
}

func TestReadNormalizesStoredLines(t *testing.T) {
	ctx := t.Context()
	store, kv, _ := newStore(t)

	p1, p2 := uuid.New(), uuid.New()
	raw := `[
		{"product_id":"` + p1.String() + `","quantity":2,"product_name":"a","product_price":10},
		{"product_id":"` + p2.String() + `","quantity":0,"product_name":"b","product_price":"4.50"},
		{"product_id":"` + p1.String() + `","quantity":1,"product_name":"a","product_price":10,"variation_id":null,"color_id":null}
	]`
	require.NoError(t, kv.Set(ctx, guestcart.StorageKey, raw))

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	assert.Equal(t, p1, lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(10).Equal(lines[0].ProductPrice))
}

func TestReadSurvivesRoundTrip(t *testing.T) {
	ctx := t.Context()
	store, _, _ := newStore(t)

	line := randomLine()
	line.VariationID = validID()
	line.VariationName = "XL"
	line.VariationPrice = decimal.NewNullDecimal(decimal.RequireFromString("19.99"))
	line.ColorID = validID()
	line.ColorName = "Red"
	line.ColorCode = "#ff0000"
	line.ColorPrice = decimal.NewNullDecimal(decimal.RequireFromString("2.00"))
	store.Add(ctx, line)

	lines := store.Read(ctx)
	require.Len(t, lines, 1)
	got := lines[0]
	assert.Equal(t, line.Key(), got.Key())
	assert.Equal(t, "XL", got.VariationName)
	assert.Equal(t, "#ff0000", got.ColorCode)
	assert.True(t, decimal.RequireFromString("21.99").Equal(got.UnitPrice()))
}

func TestStorageFaultsAreSwallowed(t *testing.T) {
	ctx := t.Context()
	log, hook := logtest.NewNullLogger()
	store := guestcart.New(failingKV{err: errors.New("quota exceeded")}, log)

	assert.NotPanics(t, func() {
		store.Add(ctx, randomLine())
		store.SetQuantity(ctx, randomLine().Key(), 3)
		store.RemoveProduct(ctx, uuid.New())
		store.Clear(ctx)
	})

	assert.Empty(t, store.Read(ctx))

	var errorsLogged int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			errorsLogged++
			assert.Contains(t, entry.Data[logrus.ErrorKey].(error).Error(), "quota exceeded")
		}
	}
	assert.Equal(t, 2, errorsLogged, "failed save on add and failed clear")
}

type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }
func (f failingKV) Delete(context.Context, string) error              { return f.err }

func randomLine() domain.CartLine {
	return domain.CartLine{
		ProductID:    uuid.New(),
		Quantity:     gofakeit.Number(1, 5),
		ProductName:  gofakeit.ProductName(),
		ProductPrice: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
	}
}

func validID() uuid.NullUUID {
	return uuid.NullUUID{UUID: uuid.New(), Valid: true}
}
