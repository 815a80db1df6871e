package ledger

import (
	"errors"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"sync"
	"time"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrItemNotAvailable   = errors.New("item not available")
	ErrAssetAlreadyListed = errors.New("asset already has an open listing")
	ErrWrongPaymentAmount = errors.New("payment must equal the ask price")
	ErrSelfPurchase       = errors.New("seller cannot buy their own item")
)

// ItemLedger owns the Listed/Sold lifecycle. Items are append-only: ids are
// strictly increasing and never reused, and no item is ever deleted. At most
// one open listing exists per asset at any time.
type ItemLedger struct {
	mu     sync.RWMutex
	nextID uint64
	items  map[uint64]*entity.Item
	order  []uint64
	open   map[string]uint64
}

func NewItemLedger() *ItemLedger {
	return &ItemLedger{
		nextID: 1,
		items:  make(map[uint64]*entity.Item),
		order:  make([]uint64, 0),
		open:   make(map[string]uint64),
	}
}

func (l *ItemLedger) Append(assetID, seller string, askPrice uint64) (entity.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.open[assetID]; exists {
		return entity.Item{}, ErrAssetAlreadyListed
	}

	item := &entity.Item{
		ID:       l.nextID,
		AssetID:  assetID,
		Seller:   seller,
		AskPrice: askPrice,
		Status:   entity.StatusListed,
		ListedAt: time.Now(),
	}

	l.items[item.ID] = item
	l.order = append(l.order, item.ID)
	l.open[assetID] = item.ID
	l.nextID++

	return *item, nil
}

func (l *ItemLedger) Get(id uint64) (entity.Item, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, ok := l.items[id]
	if !ok {
		return entity.Item{}, ErrItemNotFound
	}

	return *item, nil
}

// Open returns all Listed items in insertion order. This is a full scan over
// the ledger; callers paginate at their own layer.
func (l *ItemLedger) Open() []entity.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	open := make([]entity.Item, 0)
	for _, id := range l.order {
		if l.items[id].IsOpen() {
			open = append(open, *l.items[id])
		}
	}

	return open
}

func (l *ItemLedger) All() []entity.Item {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := make([]entity.Item, 0, len(l.order))
	for _, id := range l.order {
		all = append(all, *l.items[id])
	}

	return all
}

// Sell validates and performs the Listed to Sold transition in one critical
// section, so two buyers racing on the same item cannot both succeed.
func (l *ItemLedger) Sell(id uint64, buyer string, payment uint64) (entity.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok || item.Status != entity.StatusListed {
		return entity.Item{}, ErrItemNotAvailable
	}

	if payment != item.AskPrice {
		return entity.Item{}, ErrWrongPaymentAmount
	}

	if buyer == item.Seller {
		return entity.Item{}, ErrSelfPurchase
	}

	item.Status = entity.StatusSold
	item.Buyer = buyer
	item.SoldAt = time.Now()
	delete(l.open, item.AssetID)

	return *item, nil
}

// Reopen reverts a Sold item back to Listed. Only settlement rollback calls
// this; the Listed to Sold transition is otherwise terminal.
func (l *ItemLedger) Reopen(id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return ErrItemNotFound
	}

	item.Status = entity.StatusListed
	item.Buyer = ""
	item.SoldAt = time.Time{}
	l.open[item.AssetID] = item.ID

	return nil
}
