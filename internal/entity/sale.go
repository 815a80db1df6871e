package entity

import (
	"fmt"
	"github.com/gosimple/slug"
	"time"
)

// Sale is the settlement record emitted when an item moves to Sold and the
// asset transfer has landed in the registry.
type Sale struct {
	ItemID    uint64    `json:"itemId"`
	AssetID   string    `json:"assetId"`
	Buyer     string    `json:"buyer"`
	Seller    string    `json:"seller"`
	Price     uint64    `json:"price"`
	SettledAt time.Time `json:"settledAt"`
}

func (s Sale) Slug() string {
	return CreateSaleSlug(s.ItemID)
}

func CreateSaleSlug(itemID uint64) string {
	return slug.Make(fmt.Sprintf("sale-%d", itemID))
}
