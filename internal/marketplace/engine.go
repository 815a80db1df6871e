package marketplace

import (
	"fmt"
	"github.com/nftbay/marketplace-engine/internal/dev"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/nftbay/marketplace-engine/internal/event"
	"github.com/nftbay/marketplace-engine/internal/fee"
	"github.com/nftbay/marketplace-engine/internal/ledger"
	"github.com/nftbay/marketplace-engine/internal/payout"
	"github.com/nftbay/marketplace-engine/internal/registry"
	"github.com/nu7hatch/gouuid"
	"go.uber.org/zap"
	"time"
)

// Engine is the escrow-and-settlement core. All ledger mutation flows through
// it; external calls (asset transfer, payout) are made only after the
// internal state has been committed, so a reentrant call observes the
// already-advanced state and fails instead of repeating an operation.
//
// Fee policy: the listing fee is collected in full when an item is listed and
// credited to the fee recipient at that moment. A sale credits the seller the
// entire ask price; no sale-time cut is taken.
type Engine struct {
	items    *ledger.ItemLedger
	balances *ledger.BalanceLedger
	fees     *fee.Policy
	registry registry.Service
	payouts  payout.Service
	operator string
}

func NewEngine(
	items *ledger.ItemLedger,
	balances *ledger.BalanceLedger,
	fees *fee.Policy,
	registrySvc registry.Service,
	payouts payout.Service,
	operator string,
) *Engine {
	return &Engine{
		items:    items,
		balances: balances,
		fees:     fees,
		registry: registrySvc,
		payouts:  payouts,
		operator: operator,
	}
}

// List creates a Listing for an asset the seller owns. The payment must equal
// the listing fee exactly; the fee is credited to the fee recipient's pending
// balance immediately. Any precondition failure leaves the ledger untouched.
func (e *Engine) List(seller, assetID string, askPrice, payment uint64) (uint64, error) {
	listingFee := e.fees.ListingFee()

	if askPrice == 0 || askPrice < listingFee {
		return 0, ErrInvalidPrice
	}

	if payment != listingFee {
		return 0, ErrWrongFeeAmount
	}

	owner, err := e.registry.OwnerOf(assetID)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrRegistryUnavailable, err)
	}
	if owner != seller {
		return 0, ErrAssetNotOwned
	}

	approved, err := e.registry.IsApprovedToTransfer(assetID, e.operator)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrRegistryUnavailable, err)
	}
	if !approved {
		return 0, ErrTransferNotApproved
	}

	item, err := e.items.Append(assetID, seller, askPrice)
	if err != nil {
		return 0, err
	}

	e.balances.Credit(e.fees.Recipient(), payment)

	zap.L().With(
		zap.Uint64("itemId", item.ID),
		zap.String("assetId", assetID),
		zap.String("seller", seller),
		zap.Uint64("askPrice", askPrice),
	).Info("Engine: Item listed")

	event.EmitEvent(event.ItemListedEvent, item)
	event.EmitEvent(event.PaymentProcessedEvent, e.newPayment(e.fees.Recipient(), item.ID, payment, entity.PaymentReasonMarketplaceFee))

	return item.ID, nil
}

// Buy settles a purchase atomically: the item is flipped to Sold and the
// seller's proceeds are credited (as a held balance) before the registry is
// instructed to move the asset. If the transfer fails the whole operation is
// rolled back; funds credited without the asset moving is the one outcome
// this ordering exists to prevent.
func (e *Engine) Buy(buyer string, itemID uint64, payment uint64) (entity.Sale, error) {
	item, err := e.items.Sell(itemID, buyer, payment)
	if err != nil {
		return entity.Sale{}, err
	}

	proceeds := item.AskPrice
	e.balances.Hold(item.Seller, proceeds)

	if err := e.registry.Transfer(item.AssetID, item.Seller, buyer); err != nil {
		e.balances.Revoke(item.Seller, proceeds)
		if reopenErr := e.items.Reopen(itemID); reopenErr != nil {
			zap.L().With(zap.Error(reopenErr), zap.Uint64("itemId", itemID)).Error("Engine: Failed to reopen item")
		}

		event.EmitEvent(event.ExternalFailureEvent, dev.NewError("registry", "transfer", err, map[string]interface{}{
			"itemId":  itemID,
			"assetId": item.AssetID,
			"buyer":   buyer,
		}))

		return entity.Sale{}, fmt.Errorf("%w: %s", ErrAssetTransferFailed, err)
	}

	e.balances.Release(item.Seller, proceeds)

	sale := entity.Sale{
		ItemID:    item.ID,
		AssetID:   item.AssetID,
		Buyer:     buyer,
		Seller:    item.Seller,
		Price:     item.AskPrice,
		SettledAt: time.Now(),
	}

	zap.L().With(
		zap.Uint64("itemId", sale.ItemID),
		zap.String("buyer", sale.Buyer),
		zap.String("seller", sale.Seller),
		zap.Uint64("price", sale.Price),
	).Info("Engine: Sale settled")

	event.EmitEvent(event.ItemUpdatedEvent, item)
	event.EmitEvent(event.SaleSettledEvent, sale)
	event.EmitEvent(event.PaymentProcessedEvent, e.newPayment(sale.Seller, sale.ItemID, proceeds, entity.PaymentReasonSellerPayment))

	return sale, nil
}

// Withdraw drains the caller's pending balance and pays it out. The balance
// is zeroed before funds move and restored if the payout fails, so a double
// submission pays out at most once and funds are never lost.
func (e *Engine) Withdraw(payee string) (uint64, error) {
	return e.drain(payee, entity.PaymentReasonWithdrawal)
}

// Claim is an alias kept for callers of the older entry point. It delegates
// to the same withdrawal path and differs only in the audit reason.
func (e *Engine) Claim(payee string) (uint64, error) {
	return e.drain(payee, entity.PaymentReasonClaim)
}

func (e *Engine) drain(payee string, reason entity.PaymentReason) (uint64, error) {
	amount, err := e.balances.BeginWithdrawal(payee)
	if err != nil {
		return 0, err
	}

	if err := e.payouts.Transfer(payee, amount); err != nil {
		e.balances.Restore(payee, amount)

		event.EmitEvent(event.ExternalFailureEvent, dev.NewError("payout", "transfer", err, map[string]interface{}{
			"payee":  payee,
			"amount": amount,
		}))

		return 0, fmt.Errorf("%w: %s", ErrPayoutFailed, err)
	}

	zap.L().With(
		zap.String("payee", payee),
		zap.Uint64("amount", amount),
		zap.String("reason", string(reason)),
	).Info("Engine: Balance paid out")

	event.EmitEvent(event.PaymentProcessedEvent, e.newPayment(payee, 0, amount, reason))

	return amount, nil
}

func (e *Engine) GetItem(id uint64) (entity.Item, error) {
	return e.items.Get(id)
}

func (e *Engine) OpenItems() []entity.Item {
	return e.items.Open()
}

func (e *Engine) PendingBalance(payee string) uint64 {
	return e.balances.Balance(payee)
}

func (e *Engine) ListingFee() uint64 {
	return e.fees.ListingFee()
}

func (e *Engine) SetListingFee(caller string, amount uint64) error {
	return e.fees.SetListingFee(caller, amount)
}

func (e *Engine) newPayment(payee string, itemID uint64, amount uint64, reason entity.PaymentReason) entity.Payment {
	id := ""
	if u, err := uuid.NewV4(); err == nil {
		id = u.String()
	}

	return entity.Payment{
		ID:          id,
		Payee:       payee,
		ItemID:      itemID,
		Amount:      amount,
		Reason:      reason,
		ProcessedAt: time.Now(),
	}
}
