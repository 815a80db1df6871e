package entity

import (
	"fmt"
	"github.com/gosimple/slug"
	"time"
)

type PaymentReason string

const (
	PaymentReasonMarketplaceFee PaymentReason = "MARKETPLACE_FEE"
	PaymentReasonSellerPayment  PaymentReason = "SELLER_PAYMENT"
	PaymentReasonWithdrawal     PaymentReason = "WITHDRAWAL"
	PaymentReasonClaim          PaymentReason = "CLAIM"
)

// Payment records a pending-balance credit or a completed payout. Credits are
// bookkeeping only; funds leave the engine exclusively through withdrawals.
type Payment struct {
	ID          string        `json:"id"`
	Payee       string        `json:"payee"`
	ItemID      uint64        `json:"itemId,omitempty"`
	Amount      uint64        `json:"amount"`
	Reason      PaymentReason `json:"reason"`
	ProcessedAt time.Time     `json:"processedAt"`
}

func (p Payment) Slug() string {
	return slug.Make(fmt.Sprintf("payment-%s", p.ID))
}
