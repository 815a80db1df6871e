package payout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"net/http"
	"time"
)

var ErrPayoutRejected = errors.New("payout rejected")

// Service moves real funds to a payee. It is only called by the withdrawal
// path, after the pending balance has already been zeroed.
type Service interface {
	Transfer(payee string, amount uint64) error
}

type provider struct {
	client  *retryablehttp.Client
	baseUrl string
}

type payoutRequest struct {
	Payee  string `json:"payee"`
	Amount uint64 `json:"amount"`
}

func NewProvider(baseUrl string, timeout, retryMax int) Service {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	client.Logger = nil

	return provider{client: client, baseUrl: baseUrl}
}

func (p provider) Transfer(payee string, amount uint64) error {
	payload, err := json.Marshal(payoutRequest{Payee: payee, Amount: amount})
	if err != nil {
		return err
	}

	resp, err := p.client.Post(p.baseUrl+"/payouts", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: %s", ErrPayoutRejected, resp.Status)
	}

	return nil
}
