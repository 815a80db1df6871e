package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"net/http"
	"time"
)

type provider struct {
	client  *retryablehttp.Client
	baseUrl string
}

type ownerResponse struct {
	Owner string `json:"owner"`
}

type approvalResponse struct {
	Approved bool `json:"approved"`
}

type transferRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func NewProvider(baseUrl string, timeout, retryMax int) Service {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.HTTPClient.Timeout = time.Duration(timeout) * time.Second
	client.Logger = nil

	return provider{client: client, baseUrl: baseUrl}
}

func (p provider) OwnerOf(assetID string) (string, error) {
	resp, err := p.client.Get(fmt.Sprintf("%s/assets/%s/owner", p.baseUrl, assetID))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrAssetNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry: owner lookup returned %s", resp.Status)
	}

	var body ownerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}

	return body.Owner, nil
}

func (p provider) IsApprovedToTransfer(assetID, operator string) (bool, error) {
	resp, err := p.client.Get(fmt.Sprintf("%s/assets/%s/approvals/%s", p.baseUrl, assetID, operator))
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, ErrAssetNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("registry: approval lookup returned %s", resp.Status)
	}

	var body approvalResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	return body.Approved, nil
}

// Transfer instructs the registry to move the asset. The registry is the
// system of record; a non-2xx response means ownership did not change.
func (p provider) Transfer(assetID, from, to string) error {
	payload, err := json.Marshal(transferRequest{From: from, To: to})
	if err != nil {
		return err
	}

	resp, err := p.client.Post(
		fmt.Sprintf("%s/assets/%s/transfers", p.baseUrl, assetID),
		"application/json",
		bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrAssetNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		zap.L().With(
			zap.String("assetId", assetID),
			zap.String("status", resp.Status),
		).Warn("Registry: Transfer rejected")
		return ErrTransferRejected
	}

	return nil
}
