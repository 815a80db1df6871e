package entity

import (
	"fmt"
	"github.com/gosimple/slug"
	"time"
)

type Status string

const (
	StatusListed Status = "listed"
	StatusSold   Status = "sold"
)

// Item is a for-sale record pairing an external asset with an ask price and
// seller. Items are append-only; the only mutation is the Listed to Sold
// transition performed by settlement.
type Item struct {
	ID       uint64    `json:"id"`
	AssetID  string    `json:"assetId"`
	Seller   string    `json:"seller"`
	Buyer    string    `json:"buyer,omitempty"`
	AskPrice uint64    `json:"askPrice"`
	Status   Status    `json:"status"`
	ListedAt time.Time `json:"listedAt"`
	SoldAt   time.Time `json:"soldAt,omitempty"`
}

func (i Item) Slug() string {
	return CreateItemSlug(i.ID)
}

func CreateItemSlug(id uint64) string {
	return slug.Make(fmt.Sprintf("item-%d", id))
}

func (i Item) IsOpen() bool {
	return i.Status == StatusListed
}
