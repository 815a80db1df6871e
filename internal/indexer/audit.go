package indexer

import (
	"github.com/nftbay/marketplace-engine/internal/dev"
	"github.com/nftbay/marketplace-engine/internal/elastic_search"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/nftbay/marketplace-engine/internal/event"
	"go.uber.org/zap"
)

// AuditIndexer persists every engine event to the audit store. It is a
// listener, never a caller: nothing here feeds back into settlement.
type AuditIndexer interface {
	Subscribe()
}

type auditIndexer struct {
	elastic elastic_search.Index
}

func NewAuditIndexer(elastic elastic_search.Index) AuditIndexer {
	return auditIndexer{elastic}
}

func (i auditIndexer) Subscribe() {
	event.AddEventListener(event.ItemListedEvent, i.indexItem)
	event.AddEventListener(event.ItemUpdatedEvent, i.updateItem)
	event.AddEventListener(event.SaleSettledEvent, i.indexSale)
	event.AddEventListener(event.PaymentProcessedEvent, i.indexPayment)
	event.AddEventListener(event.ExternalFailureEvent, i.indexFailure)
}

func (i auditIndexer) indexItem(msg interface{}) {
	item, ok := msg.(entity.Item)
	if !ok {
		zap.L().Error("AuditIndexer: Unexpected item payload")
		return
	}

	i.elastic.AddIndexRequest(elastic_search.ItemIndex.Get(), item)
	i.elastic.Persist()
}

func (i auditIndexer) updateItem(msg interface{}) {
	item, ok := msg.(entity.Item)
	if !ok {
		zap.L().Error("AuditIndexer: Unexpected item payload")
		return
	}

	i.elastic.AddUpdateRequest(elastic_search.ItemIndex.Get(), item)
	i.elastic.Persist()
}

func (i auditIndexer) indexSale(msg interface{}) {
	sale, ok := msg.(entity.Sale)
	if !ok {
		zap.L().Error("AuditIndexer: Unexpected sale payload")
		return
	}

	i.elastic.AddIndexRequest(elastic_search.SaleIndex.Get(), sale)
	i.elastic.Persist()
}

func (i auditIndexer) indexPayment(msg interface{}) {
	payment, ok := msg.(entity.Payment)
	if !ok {
		zap.L().Error("AuditIndexer: Unexpected payment payload")
		return
	}

	i.elastic.AddIndexRequest(elastic_search.PaymentIndex.Get(), payment)
	i.elastic.Persist()
}

func (i auditIndexer) indexFailure(msg interface{}) {
	failure, ok := msg.(dev.Error)
	if !ok {
		zap.L().Error("AuditIndexer: Unexpected failure payload")
		return
	}

	i.elastic.AddIndexRequest(elastic_search.FailureIndex.Get(), failure)
	i.elastic.Persist()
}
