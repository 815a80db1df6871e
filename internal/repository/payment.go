package repository

import (
	"encoding/json"
	"github.com/nftbay/marketplace-engine/internal/elastic_search"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/olivere/elastic/v7"
)

type PaymentRepository interface {
	GetPaymentsForPayee(payee string, size, from int) ([]entity.Payment, error)
}

type paymentRepository struct {
	elastic elastic_search.Index
}

func NewPaymentRepository(elastic elastic_search.Index) PaymentRepository {
	return paymentRepository{elastic}
}

func (r paymentRepository) GetPaymentsForPayee(payee string, size, from int) ([]entity.Payment, error) {
	payments := make([]entity.Payment, 0)

	result, err := r.elastic.GetClient().
		Search(elastic_search.PaymentIndex.Get()).
		Query(elastic.NewTermQuery("payee", payee)).
		Sort("processedAt", false).
		Size(size).
		From(from).
		Do(ctx())

	if err != nil {
		return payments, err
	}

	for _, hit := range result.Hits.Hits {
		var payment entity.Payment
		if err := json.Unmarshal(hit.Source, &payment); err != nil {
			return payments, err
		}
		payments = append(payments, payment)
	}

	return payments, nil
}
