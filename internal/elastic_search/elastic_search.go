package elastic_search

import (
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws/credentials"
	v4 "github.com/aws/aws-sdk-go/aws/signer/v4"
	"github.com/nftbay/marketplace-engine/internal/config"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/olivere/elastic/v7"
	"github.com/patrickmn/go-cache"
	"github.com/sha1sum/aws_signing_client"
	"go.uber.org/zap"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"
)

// Index is the durable audit store. The in-memory ledgers are authoritative;
// everything written here is an append-only record of what the engine did.
type Index interface {
	GetClient() *elastic.Client

	InstallMappings()

	AddIndexRequest(index string, entity entity.Entity)
	AddUpdateRequest(index string, entity entity.Entity)
	HasRequest(entity entity.Entity) bool
	GetRequests() []Request
	ClearRequests()

	BatchPersist() bool
	Persist() int
}

type index struct {
	client *elastic.Client
	cache  *cache.Cache
}

type Request struct {
	Index  string
	Entity entity.Entity
	Type   RequestType
}

type RequestType string

var (
	IndexRequest  RequestType = "index"
	UpdateRequest RequestType = "update"
)

func New() (Index, error) {
	client, err := newClient()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("ElasticSearch: Failed to create client")
	}

	return index{client, cache.New(5*time.Minute, 10*time.Minute)}, err
}

func newClient() (*elastic.Client, error) {
	opts := []elastic.ClientOptionFunc{
		elastic.SetURL(strings.Join(config.Get().ElasticSearch.Hosts, ",")),
		elastic.SetSniff(config.Get().ElasticSearch.Sniff),
		elastic.SetHealthcheck(config.Get().ElasticSearch.HealthCheck),
	}

	if config.Get().ElasticSearch.Debug {
		opts = append(opts, elastic.SetTraceLog(ElasticLogger{}))
	}

	if config.Get().ElasticSearch.Aws {
		creds := credentials.NewStaticCredentials(config.Get().Aws.AccessKey, config.Get().Aws.SecretKey, config.Get().Aws.Token)
		awsClient, err := aws_signing_client.New(v4.NewSigner(creds), nil, "es", config.Get().Aws.Region)
		if err != nil {
			return nil, err
		}

		opts = append(opts, elastic.SetHttpClient(awsClient))
		opts = append(opts, elastic.SetScheme("https"))
		return elastic.NewClient(opts...)
	}

	if config.Get().ElasticSearch.Username != "" {
		opts = append(opts, elastic.SetBasicAuth(
			config.Get().ElasticSearch.Username,
			config.Get().ElasticSearch.Password,
		))
	}

	return elastic.NewClient(opts...)
}

func (i index) GetClient() *elastic.Client {
	return i.client
}

func (i index) InstallMappings() {
	zap.L().Info("ElasticSearch: Install Mappings")

	files, err := ioutil.ReadDir(config.Get().ElasticSearch.MappingDir)
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("ElasticSearch: Elastic mappings directory error")
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		b, err := ioutil.ReadFile(fmt.Sprintf("%s/%s", config.Get().ElasticSearch.MappingDir, f.Name()))
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("file", f.Name())).Fatal("ElasticSearch: Elastic mappings file error")
		}

		idx := fmt.Sprintf("%s.%s.%s", config.Get().Network, config.Get().Index, f.Name()[0:len(f.Name())-len(filepath.Ext(f.Name()))])
		if err = i.createIndex(idx, b); err != nil {
			zap.S().With(zap.Error(err)).Fatalf("ElasticSearch: Failed to create index %s", idx)
		}
	}
}

func (i index) createIndex(index string, mapping []byte) error {
	ctx := context.Background()

	exists, err := i.client.IndexExists(index).Do(ctx)
	if err != nil {
		return err
	}

	if !exists {
		createIndex, err := i.client.CreateIndex(index).BodyString(string(mapping)).Do(ctx)
		if err != nil {
			return err
		}

		if createIndex.Acknowledged {
			zap.S().Infof("ElasticSearch: Created index %s", index)
		}
	}

	return nil
}

func (i index) AddIndexRequest(idx string, e entity.Entity) {
	zap.L().With(zap.String("slug", e.Slug())).Debug("ElasticSearch: AddIndexRequest")

	i.addRequest(idx, e, IndexRequest)
}

func (i index) AddUpdateRequest(idx string, e entity.Entity) {
	zap.L().With(zap.String("slug", e.Slug())).Debug("ElasticSearch: AddUpdateRequest")

	i.addRequest(idx, e, UpdateRequest)
}

func (i index) HasRequest(e entity.Entity) bool {
	_, found := i.cache.Get(e.Slug())

	return found
}

func (i index) addRequest(idx string, e entity.Entity, reqType RequestType) {
	if cached, found := i.cache.Get(e.Slug()); found && cached.(Request).Type == IndexRequest {
		reqType = IndexRequest
	}

	i.cache.Set(e.Slug(), Request{idx, e, reqType}, cache.DefaultExpiration)
}

func (i index) GetRequests() []Request {
	requests := make([]Request, 0)

	for _, item := range i.cache.Items() {
		requests = append(requests, item.Object.(Request))
	}

	return requests
}

func (i index) ClearRequests() {
	i.cache.Flush()
}

func (i index) BatchPersist() bool {
	if len(i.GetRequests()) < config.Get().ElasticSearch.BulkPersistCount {
		return false
	}

	actions := len(i.GetRequests())
	start := time.Now()
	i.Persist()

	zap.L().With(
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("actions", actions),
	).Info("ElasticSearch: Persisting data")

	return true
}

func (i index) Persist() int {
	bulk := i.client.Bulk().Refresh(config.Get().ElasticSearch.Refresh)
	for _, r := range i.GetRequests() {
		if r.Type == IndexRequest {
			bulk.Add(elastic.NewBulkIndexRequest().Index(r.Index).Id(r.Entity.Slug()).Doc(r.Entity))
		} else if r.Type == UpdateRequest {
			bulk.Add(elastic.NewBulkUpdateRequest().Index(r.Index).Id(r.Entity.Slug()).Doc(r.Entity).DocAsUpsert(true))
		}
	}

	actions := bulk.NumberOfActions()
	if actions != 0 {
		i.persist(bulk)
	}

	return actions
}

func (i index) persist(bulk *elastic.BulkService) {
	actions := bulk.NumberOfActions()
	zap.S().Debugf("ElasticSearch: Persisting %d actions", actions)

	response, err := bulk.Do(context.Background())
	if err != nil {
		if err.Error() == "elastic: Error 429 (Too Many Requests)" {
			zap.L().With(zap.Error(err)).Warn("ElasticSearch: 429 (Too Many Requests)")
			time.Sleep(5 * time.Second)
			i.persist(bulk)
			return
		}
		zap.L().With(zap.Error(err)).Fatal("ElasticSearch: Failed to persist requests")
	}

	if response.Errors {
		for _, failed := range response.Failed() {
			zap.L().With(
				zap.Any("error", failed.Error),
				zap.String("index", failed.Index),
				zap.String("id", failed.Id),
			).Error("ElasticSearch: Failed to persist request")
		}
	}

	i.cache.Flush()
}
