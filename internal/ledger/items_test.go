package ledger

import (
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestItemLedger_Append(t *testing.T) {
	l := NewItemLedger()

	first, err := l.Append("asset-1", "0xseller", 10)
	require.NoError(t, err)
	second, err := l.Append("asset-2", "0xseller", 20)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, uint64(2), second.ID)
	assert.Equal(t, entity.StatusListed, first.Status)
	assert.Equal(t, "asset-1", first.AssetID)
}

func TestItemLedger_IdsAreNeverReused(t *testing.T) {
	l := NewItemLedger()

	l.Append("asset-1", "0xseller", 10)
	sold, err := l.Sell(1, "0xbuyer", 10)
	require.NoError(t, err)
	require.Equal(t, entity.StatusSold, sold.Status)

	next, err := l.Append("asset-2", "0xseller", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next.ID)
}

func TestItemLedger_OneOpenListingPerAsset(t *testing.T) {
	t.Run("duplicate open listing is rejected", func(t *testing.T) {
		l := NewItemLedger()

		_, err := l.Append("asset-1", "0xseller", 10)
		require.NoError(t, err)

		_, err = l.Append("asset-1", "0xseller", 20)
		assert.ErrorIs(t, err, ErrAssetAlreadyListed)

		open := l.Open()
		require.Len(t, open, 1)
	})

	t.Run("asset can be listed again once sold", func(t *testing.T) {
		l := NewItemLedger()

		_, err := l.Append("asset-1", "0xseller", 10)
		require.NoError(t, err)

		_, err = l.Sell(1, "0xbuyer", 10)
		require.NoError(t, err)

		item, err := l.Append("asset-1", "0xbuyer", 20)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), item.ID)
	})

	t.Run("reopen restores the guard", func(t *testing.T) {
		l := NewItemLedger()

		_, err := l.Append("asset-1", "0xseller", 10)
		require.NoError(t, err)

		_, err = l.Sell(1, "0xbuyer", 10)
		require.NoError(t, err)
		require.NoError(t, l.Reopen(1))

		_, err = l.Append("asset-1", "0xseller", 20)
		assert.ErrorIs(t, err, ErrAssetAlreadyListed)
	})
}

func TestItemLedger_Get(t *testing.T) {
	l := NewItemLedger()
	l.Append("asset-1", "0xseller", 10)

	item, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "asset-1", item.AssetID)

	_, err = l.Get(99)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestItemLedger_OpenReturnsListedInInsertionOrder(t *testing.T) {
	l := NewItemLedger()
	l.Append("asset-1", "0xseller", 10)
	l.Append("asset-2", "0xseller", 20)
	l.Append("asset-3", "0xseller", 30)

	_, err := l.Sell(2, "0xbuyer", 20)
	require.NoError(t, err)

	open := l.Open()
	require.Len(t, open, 2)
	assert.Equal(t, uint64(1), open[0].ID)
	assert.Equal(t, uint64(3), open[1].ID)
}

func TestItemLedger_Sell(t *testing.T) {
	t.Run("marks the item sold", func(t *testing.T) {
		l := NewItemLedger()
		l.Append("asset-1", "0xseller", 10)

		item, err := l.Sell(1, "0xbuyer", 10)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSold, item.Status)
		assert.Equal(t, "0xbuyer", item.Buyer)
		assert.False(t, item.SoldAt.IsZero())
	})

	t.Run("missing item", func(t *testing.T) {
		l := NewItemLedger()

		_, err := l.Sell(1, "0xbuyer", 10)
		assert.ErrorIs(t, err, ErrItemNotAvailable)
	})

	t.Run("already sold", func(t *testing.T) {
		l := NewItemLedger()
		l.Append("asset-1", "0xseller", 10)

		_, err := l.Sell(1, "0xbuyer", 10)
		require.NoError(t, err)

		_, err = l.Sell(1, "0xother", 10)
		assert.ErrorIs(t, err, ErrItemNotAvailable)
	})

	t.Run("payment must equal ask price exactly", func(t *testing.T) {
		l := NewItemLedger()
		l.Append("asset-1", "0xseller", 10)

		_, err := l.Sell(1, "0xbuyer", 9)
		assert.ErrorIs(t, err, ErrWrongPaymentAmount)

		_, err = l.Sell(1, "0xbuyer", 11)
		assert.ErrorIs(t, err, ErrWrongPaymentAmount)

		item, err := l.Get(1)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusListed, item.Status)
	})

	t.Run("seller cannot buy their own item", func(t *testing.T) {
		l := NewItemLedger()
		l.Append("asset-1", "0xseller", 10)

		_, err := l.Sell(1, "0xseller", 10)
		assert.ErrorIs(t, err, ErrSelfPurchase)
	})
}

func TestItemLedger_Reopen(t *testing.T) {
	l := NewItemLedger()
	l.Append("asset-1", "0xseller", 10)

	_, err := l.Sell(1, "0xbuyer", 10)
	require.NoError(t, err)

	require.NoError(t, l.Reopen(1))

	item, err := l.Get(1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusListed, item.Status)
	assert.Empty(t, item.Buyer)

	assert.ErrorIs(t, l.Reopen(99), ErrItemNotFound)
}
