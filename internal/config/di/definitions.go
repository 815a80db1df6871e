package di

import (
	"github.com/nftbay/marketplace-engine/internal/api"
	"github.com/nftbay/marketplace-engine/internal/config"
	"github.com/nftbay/marketplace-engine/internal/daemon"
	"github.com/nftbay/marketplace-engine/internal/elastic_search"
	"github.com/nftbay/marketplace-engine/internal/fee"
	"github.com/nftbay/marketplace-engine/internal/indexer"
	"github.com/nftbay/marketplace-engine/internal/ledger"
	"github.com/nftbay/marketplace-engine/internal/marketplace"
	"github.com/nftbay/marketplace-engine/internal/messenger"
	"github.com/nftbay/marketplace-engine/internal/payout"
	"github.com/nftbay/marketplace-engine/internal/registry"
	"github.com/nftbay/marketplace-engine/internal/repository"
	sdi "github.com/sarulabs/di/v2"
	"go.uber.org/zap"
)

var Definitions = []sdi.Def{
	{
		Name: "elastic",
		Build: func(ctn sdi.Container) (interface{}, error) {
			elastic, err := elastic_search.New()
			if err != nil {
				zap.L().With(zap.Error(err)).Fatal("Failed to start ES")
			}

			return elastic, nil
		},
	},
	{
		Name: "item.ledger",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return ledger.NewItemLedger(), nil
		},
	},
	{
		Name: "balance.ledger",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return ledger.NewBalanceLedger(), nil
		},
	},
	{
		Name: "fee.policy",
		Build: func(ctn sdi.Container) (interface{}, error) {
			cfg := config.Get()
			return fee.NewPolicy(cfg.ListingFee, cfg.FeeRecipient, cfg.AdminAddress), nil
		},
	},
	{
		Name: "registry",
		Build: func(ctn sdi.Container) (interface{}, error) {
			cfg := config.Get().Registry
			return registry.NewProvider(cfg.Url, cfg.Timeout, cfg.RetryMax), nil
		},
	},
	{
		Name: "payout",
		Build: func(ctn sdi.Container) (interface{}, error) {
			cfg := config.Get().Payout
			return payout.NewProvider(cfg.Url, cfg.Timeout, cfg.RetryMax), nil
		},
	},
	{
		Name: "engine",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return marketplace.NewEngine(
				ctn.Get("item.ledger").(*ledger.ItemLedger),
				ctn.Get("balance.ledger").(*ledger.BalanceLedger),
				ctn.Get("fee.policy").(*fee.Policy),
				ctn.Get("registry").(registry.Service),
				ctn.Get("payout").(payout.Service),
				config.Get().OperatorAddress,
			), nil
		},
	},
	{
		Name: "item.repo",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return repository.NewItemRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "sale.repo",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return repository.NewSaleRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "payment.repo",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return repository.NewPaymentRepository(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "audit.indexer",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return indexer.NewAuditIndexer(ctn.Get("elastic").(elastic_search.Index)), nil
		},
	},
	{
		Name: "messenger",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return messenger.NewMessenger(config.Get().Amqp.Url), nil
		},
	},
	{
		Name: "api",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return api.NewServer(
				ctn.Get("engine").(*marketplace.Engine),
				ctn.Get("sale.repo").(repository.SaleRepository),
				ctn.Get("payment.repo").(repository.PaymentRepository),
			), nil
		},
	},
	{
		Name: "daemon",
		Build: func(ctn sdi.Container) (interface{}, error) {
			return daemon.NewDaemon(
				ctn.Get("elastic").(elastic_search.Index),
				ctn.Get("api").(api.Server),
				ctn.Get("audit.indexer").(indexer.AuditIndexer),
				ctn.Get("messenger").(messenger.MessageService),
			), nil
		},
	},
}

func NewContainer() (sdi.Container, error) {
	builder, err := sdi.NewBuilder()
	if err != nil {
		return nil, err
	}

	if err := builder.Add(Definitions...); err != nil {
		return nil, err
	}

	return builder.Build(), nil
}
