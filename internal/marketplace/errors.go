package marketplace

import (
	"errors"
	"github.com/nftbay/marketplace-engine/internal/fee"
	"github.com/nftbay/marketplace-engine/internal/ledger"
)

var (
	ErrAssetNotOwned       = errors.New("caller is not the asset owner of record")
	ErrTransferNotApproved = errors.New("marketplace is not approved to transfer the asset")
	ErrInvalidPrice        = errors.New("ask price must be positive and cover the listing fee")
	ErrWrongFeeAmount      = errors.New("payment must equal the listing fee")
	ErrRegistryUnavailable = errors.New("asset registry unavailable")
	ErrAssetTransferFailed = errors.New("asset transfer failed, settlement rolled back")
	ErrPayoutFailed        = errors.New("payout failed, balance restored")
)

// Kind classifies engine errors so callers can tell a rejected call (ledger
// untouched) from an external failure (operation rolled back).
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindExternal
)

func KindOf(err error) Kind {
	switch {
	case errors.Is(err, ErrAssetNotOwned),
		errors.Is(err, ErrTransferNotApproved),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrWrongFeeAmount),
		errors.Is(err, ledger.ErrWrongPaymentAmount),
		errors.Is(err, ledger.ErrSelfPurchase),
		errors.Is(err, ledger.ErrItemNotFound),
		errors.Is(err, fee.ErrNotAuthorized):
		return KindValidation
	case errors.Is(err, ledger.ErrItemNotAvailable),
		errors.Is(err, ledger.ErrAssetAlreadyListed),
		errors.Is(err, ledger.ErrNothingToWithdraw):
		return KindConflict
	case errors.Is(err, ErrRegistryUnavailable),
		errors.Is(err, ErrAssetTransferFailed),
		errors.Is(err, ErrPayoutFailed):
		return KindExternal
	default:
		return KindUnknown
	}
}
