package repository

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/nftbay/marketplace-engine/internal/elastic_search"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/olivere/elastic/v7"
)

var ErrItemNotFound = errors.New("item not found")

// ItemRepository reads the item audit trail. The engine's in-memory ledger is
// authoritative for live state; these views serve history and ops tooling.
type ItemRepository interface {
	GetItem(id uint64) (entity.Item, error)
	GetItems(status entity.Status, size, from int) ([]entity.Item, error)
	GetItemsBySeller(seller string, size, from int) ([]entity.Item, error)
}

type itemRepository struct {
	elastic elastic_search.Index
}

func NewItemRepository(elastic elastic_search.Index) ItemRepository {
	return itemRepository{elastic}
}

func ctx() context.Context {
	return context.Background()
}

func (r itemRepository) GetItem(id uint64) (entity.Item, error) {
	result, err := r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(elastic.NewTermQuery("id", id)).
		Size(1).
		Do(ctx())

	if err != nil {
		return entity.Item{}, err
	}

	if len(result.Hits.Hits) == 0 {
		return entity.Item{}, ErrItemNotFound
	}

	var item entity.Item
	err = json.Unmarshal(result.Hits.Hits[0].Source, &item)

	return item, err
}

func (r itemRepository) GetItems(status entity.Status, size, from int) ([]entity.Item, error) {
	query := elastic.NewBoolQuery()
	if status != "" {
		query.Must(elastic.NewTermQuery("status", string(status)))
	}

	result, err := r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(query).
		Sort("id", true).
		Size(size).
		From(from).
		Do(ctx())

	return r.findMany(result, err)
}

func (r itemRepository) GetItemsBySeller(seller string, size, from int) ([]entity.Item, error) {
	result, err := r.elastic.GetClient().
		Search(elastic_search.ItemIndex.Get()).
		Query(elastic.NewTermQuery("seller", seller)).
		Sort("id", true).
		Size(size).
		From(from).
		Do(ctx())

	return r.findMany(result, err)
}

func (r itemRepository) findMany(results *elastic.SearchResult, err error) ([]entity.Item, error) {
	items := make([]entity.Item, 0)

	if err != nil {
		return items, err
	}

	for _, hit := range results.Hits.Hits {
		var item entity.Item
		if err := json.Unmarshal(hit.Source, &item); err != nil {
			return items, err
		}
		items = append(items, item)
	}

	return items, nil
}
