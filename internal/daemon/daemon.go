package daemon

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/nftbay/marketplace-engine/internal/api"
	"github.com/nftbay/marketplace-engine/internal/config"
	"github.com/nftbay/marketplace-engine/internal/elastic_search"
	"github.com/nftbay/marketplace-engine/internal/event"
	"github.com/nftbay/marketplace-engine/internal/indexer"
	"github.com/nftbay/marketplace-engine/internal/messenger"
	"go.uber.org/zap"
	"net/http"
)

// Daemon wires the engine's listeners and serves the HTTP API. The audit
// indexer and the queue publisher are subscribers only; settlement never
// waits on either.
type Daemon struct {
	elastic   elastic_search.Index
	server    api.Server
	audit     indexer.AuditIndexer
	messenger messenger.MessageService
}

func NewDaemon(
	elastic elastic_search.Index,
	server api.Server,
	audit indexer.AuditIndexer,
	messengerSvc messenger.MessageService,
) *Daemon {
	return &Daemon{
		elastic:   elastic,
		server:    server,
		audit:     audit,
		messenger: messengerSvc,
	}
}

func (d *Daemon) Execute() {
	d.elastic.InstallMappings()
	d.audit.Subscribe()
	d.subscribePublisher()

	go d.health()

	zap.L().With(zap.String("port", config.Get().ApiPort)).Info("Marketplace API listening")
	if err := http.ListenAndServe(":"+config.Get().ApiPort, d.server.Router()); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to start api server")
	}
}

func (d *Daemon) subscribePublisher() {
	if config.Get().Amqp.Url == "" {
		zap.L().Info("Daemon: No AMQP configured, queue publishing disabled")
		return
	}

	event.AddEventListener(event.SaleSettledEvent, func(msg interface{}) {
		d.publish(messenger.SaleSettled, msg)
	})
	event.AddEventListener(event.PaymentProcessedEvent, func(msg interface{}) {
		d.publish(messenger.PaymentProcessed, msg)
	})
}

func (d *Daemon) publish(topic messenger.Topic, msg interface{}) {
	body, err := json.Marshal(msg)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Daemon: Failed to marshal queue message")
		return
	}

	if err := d.messenger.SendMessage(topic, body, true); err != nil {
		zap.L().With(zap.Error(err), zap.String("topic", string(topic))).Error("Daemon: Failed to publish message")
	}
}

func (d *Daemon) health() {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
	}).Methods("GET")

	if err := http.ListenAndServe(":"+config.Get().HealthPort, r); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to start health server")
	}
}
