package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmitafamilia/ordering/internal/delivery"
	"github.com/marmitafamilia/ordering/internal/domain/selection"
)

func newTestDraft() selection.Draft {
	return selection.NewDraft(
		decimal.RequireFromString("12.00"),
		decimal.RequireFromString("5.00"),
	)
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore(time.Hour)

	id := s.Create(newTestDraft())
	require.NotEmpty(t, id)

	d, q, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Quantity)
	assert.Nil(t, q)

	_, _, err = s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Apply(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create(newTestDraft())

	d, err := s.Apply(id, func(d selection.Draft) (selection.Draft, error) {
		return d.WithQuantity(3)
	})
	require.NoError(t, err)
	assert.Equal(t, 3, d.Quantity)

	got, _, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
}

func TestStore_Apply_RejectedUpdateKeepsState(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create(newTestDraft())

	d, err := s.Apply(id, func(d selection.Draft) (selection.Draft, error) {
		return d.WithQuantity(-1)
	})
	require.ErrorIs(t, err, selection.ErrInvalidQuantity)
	assert.Equal(t, 1, d.Quantity)

	got, _, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestStore_PutQuote_AddressMatch(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create(newTestDraft())

	_, err := s.Apply(id, func(d selection.Draft) (selection.Draft, error) {
		return d.WithAddress("Rua A, 1"), nil
	})
	require.NoError(t, err)

	ok := s.PutQuote(id, delivery.Quote{
		Fee:     decimal.NewFromInt(7),
		Address: "Rua A, 1",
	})
	assert.True(t, ok)

	_, q, err := s.Get(id)
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.True(t, q.Fee.Equal(decimal.NewFromInt(7)))
}

func TestStore_PutQuote_StaleAddressDropped(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create(newTestDraft())

	_, err := s.Apply(id, func(d selection.Draft) (selection.Draft, error) {
		return d.WithAddress("Rua B, 2"), nil
	})
	require.NoError(t, err)

	// Quote computed for the old address must not install.
	ok := s.PutQuote(id, delivery.Quote{
		Fee:     decimal.NewFromInt(9),
		Address: "Rua A, 1",
	})
	assert.False(t, ok)

	_, q, err := s.Get(id)
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(time.Hour)
	id := s.Create(newTestDraft())

	_, err := s.Apply(id, func(d selection.Draft) (selection.Draft, error) {
		return d.WithAddress("Rua A, 1").WithWater(true), nil
	})
	require.NoError(t, err)
	require.True(t, s.PutQuote(id, delivery.Quote{Fee: decimal.NewFromInt(7), Address: "Rua A, 1"}))

	require.NoError(t, s.Reset(id, newTestDraft()))

	d, q, err := s.Get(id)
	require.NoError(t, err)
	assert.Empty(t, d.Address)
	assert.False(t, d.Water)
	assert.Nil(t, q)

	require.ErrorIs(t, s.Reset("missing", newTestDraft()), ErrNotFound)
}

func TestStore_SweepEvictsIdleSessions(t *testing.T) {
	s := NewStore(time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }

	stale := s.Create(newTestDraft())
	fresh := s.Create(newTestDraft())

	// Touch only the fresh session later on.
	s.now = func() time.Time { return base.Add(50 * time.Second) }
	_, _, err := s.Get(fresh)
	require.NoError(t, err)

	s.sweep(base.Add(70 * time.Second))

	_, _, err = s.Get(stale)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Get(fresh)
	assert.NoError(t, err)
}
