package fee

import (
	"errors"
	"github.com/nftbay/marketplace-engine/internal/event"
	"go.uber.org/zap"
	"sync"
)

var ErrNotAuthorized = errors.New("caller is not the marketplace administrator")

// Policy holds the process-wide fee configuration. The listing fee is fixed
// at initialisation and only the configured administrator can change it.
type Policy struct {
	mu         sync.RWMutex
	listingFee uint64
	recipient  string
	admin      string
}

func NewPolicy(listingFee uint64, recipient, admin string) *Policy {
	return &Policy{
		listingFee: listingFee,
		recipient:  recipient,
		admin:      admin,
	}
}

func (p *Policy) ListingFee() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.listingFee
}

func (p *Policy) Recipient() string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.recipient
}

func (p *Policy) SetListingFee(caller string, amount uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.admin {
		return ErrNotAuthorized
	}

	zap.L().With(
		zap.Uint64("previous", p.listingFee),
		zap.Uint64("listingFee", amount),
	).Info("Fee: Listing fee updated")

	p.listingFee = amount
	event.EmitEvent(event.ListingFeeUpdatedEvent, amount)

	return nil
}
