package elastic_search

import (
	"fmt"
	"github.com/nftbay/marketplace-engine/internal/config"
)

type Indices string

var (
	ItemIndex    Indices = "item"
	SaleIndex    Indices = "sale"
	PaymentIndex Indices = "payment"
	FailureIndex Indices = "failure"
)

// Get prefixes the index with the network and deployment name.
func (i *Indices) Get() string {
	return fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, string(*i))
}

func All() []Indices {
	return []Indices{
		ItemIndex,
		SaleIndex,
		PaymentIndex,
		FailureIndex,
	}
}
