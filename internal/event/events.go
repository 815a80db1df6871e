package event

type Type string

const (
	ItemListedEvent        Type = "ItemListedEvent"
	ItemUpdatedEvent       Type = "ItemUpdatedEvent"
	SaleSettledEvent       Type = "SaleSettledEvent"
	PaymentProcessedEvent  Type = "PaymentProcessedEvent"
	ExternalFailureEvent   Type = "ExternalFailureEvent"
	ListingFeeUpdatedEvent Type = "ListingFeeUpdatedEvent"
)
