package repository

import (
	"encoding/json"
	"errors"
	"github.com/nftbay/marketplace-engine/internal/elastic_search"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/olivere/elastic/v7"
)

var ErrSaleNotFound = errors.New("sale not found")

type SaleRepository interface {
	GetSale(itemID uint64) (entity.Sale, error)
	GetSalesBySeller(seller string, size, from int) ([]entity.Sale, error)
	GetSalesByBuyer(buyer string, size, from int) ([]entity.Sale, error)
}

type saleRepository struct {
	elastic elastic_search.Index
}

func NewSaleRepository(elastic elastic_search.Index) SaleRepository {
	return saleRepository{elastic}
}

func (r saleRepository) GetSale(itemID uint64) (entity.Sale, error) {
	result, err := r.elastic.GetClient().
		Search(elastic_search.SaleIndex.Get()).
		Query(elastic.NewTermQuery("itemId", itemID)).
		Size(1).
		Do(ctx())

	return r.findOne(result, err)
}

func (r saleRepository) GetSalesBySeller(seller string, size, from int) ([]entity.Sale, error) {
	result, err := r.elastic.GetClient().
		Search(elastic_search.SaleIndex.Get()).
		Query(elastic.NewTermQuery("seller", seller)).
		Sort("settledAt", false).
		Size(size).
		From(from).
		Do(ctx())

	return r.findMany(result, err)
}

func (r saleRepository) GetSalesByBuyer(buyer string, size, from int) ([]entity.Sale, error) {
	result, err := r.elastic.GetClient().
		Search(elastic_search.SaleIndex.Get()).
		Query(elastic.NewTermQuery("buyer", buyer)).
		Sort("settledAt", false).
		Size(size).
		From(from).
		Do(ctx())

	return r.findMany(result, err)
}

func (r saleRepository) findOne(results *elastic.SearchResult, err error) (entity.Sale, error) {
	if err != nil {
		return entity.Sale{}, err
	}

	if len(results.Hits.Hits) == 0 {
		return entity.Sale{}, ErrSaleNotFound
	}

	var sale entity.Sale
	err = json.Unmarshal(results.Hits.Hits[0].Source, &sale)

	return sale, err
}

func (r saleRepository) findMany(results *elastic.SearchResult, err error) ([]entity.Sale, error) {
	sales := make([]entity.Sale, 0)

	if err != nil {
		return sales, err
	}

	for _, hit := range results.Hits.Hits {
		var sale entity.Sale
		if err := json.Unmarshal(hit.Source, &sale); err != nil {
			return sales, err
		}
		sales = append(sales, sale)
	}

	return sales, nil
}
