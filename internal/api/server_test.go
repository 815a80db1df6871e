package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/nftbay/marketplace-engine/internal/fee"
	"github.com/nftbay/marketplace-engine/internal/ledger"
	"github.com/nftbay/marketplace-engine/internal/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubRegistry struct {
	owners      map[string]string
	transferErr error
}

func (s stubRegistry) OwnerOf(assetID string) (string, error) {
	owner, ok := s.owners[assetID]
	if !ok {
		return "", errors.New("not found")
	}
	return owner, nil
}

func (s stubRegistry) IsApprovedToTransfer(assetID, operator string) (bool, error) {
	return true, nil
}

func (s stubRegistry) Transfer(assetID, from, to string) error {
	return s.transferErr
}

type stubPayout struct {
	failErr error
}

func (s stubPayout) Transfer(payee string, amount uint64) error {
	return s.failErr
}

type stubSaleRepo struct {
	sales []entity.Sale
}

func (s stubSaleRepo) GetSale(itemID uint64) (entity.Sale, error) {
	return entity.Sale{}, errors.New("not found")
}

func (s stubSaleRepo) GetSalesBySeller(seller string, size, from int) ([]entity.Sale, error) {
	return s.sales, nil
}

func (s stubSaleRepo) GetSalesByBuyer(buyer string, size, from int) ([]entity.Sale, error) {
	return s.sales, nil
}

type stubPaymentRepo struct {
	payments []entity.Payment
}

func (s stubPaymentRepo) GetPaymentsForPayee(payee string, size, from int) ([]entity.Payment, error) {
	return s.payments, nil
}

func newTestServer(registry stubRegistry, payouts stubPayout) *httptest.Server {
	engine := marketplace.NewEngine(
		ledger.NewItemLedger(),
		ledger.NewBalanceLedger(),
		fee.NewPolicy(1, "0xmarket", "0xadmin"),
		registry,
		payouts,
		"0xoperator",
	)

	server := NewServer(engine, stubSaleRepo{}, stubPaymentRepo{})

	return httptest.NewServer(server.Router())
}

func doJson(t *testing.T, method, url, wallet string, body interface{}) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, url, &payload)
	require.NoError(t, err)
	if wallet != "" {
		req.Header.Set(walletHeader, wallet)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestServer_ListItem(t *testing.T) {
	registry := stubRegistry{owners: map[string]string{"asset-a": "0xseller"}}

	t.Run("created", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/items", "0xseller", listRequest{
			AssetID: "asset-a", AskPrice: 10, Payment: 1,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body listResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint64(1), body.ItemID)
	})

	t.Run("missing wallet header is unauthorized", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/items", "", listRequest{AssetID: "asset-a", AskPrice: 10, Payment: 1})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("validation failure is a bad request", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/items", "0xseller", listRequest{AssetID: "asset-a", AskPrice: 0, Payment: 1})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-owner is a bad request", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/items", "0ximpostor", listRequest{AssetID: "asset-a", AskPrice: 10, Payment: 1})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestServer_Buy(t *testing.T) {
	registry := stubRegistry{owners: map[string]string{"asset-a": "0xseller"}}

	list := func(t *testing.T, ts *httptest.Server) uint64 {
		t.Helper()
		resp := doJson(t, "POST", ts.URL+"/items", "0xseller", listRequest{AssetID: "asset-a", AskPrice: 10, Payment: 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body listResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.ItemID
	}

	t.Run("settles", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()
		itemID := list(t, ts)

		resp := doJson(t, "POST", fmt.Sprintf("%s/items/%d/buy", ts.URL, itemID), "0xbuyer", buyRequest{Payment: 10})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var sale entity.Sale
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&sale))
		assert.Equal(t, "0xbuyer", sale.Buyer)
		assert.Equal(t, uint64(10), sale.Price)
	})

	t.Run("second purchase conflicts", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()
		itemID := list(t, ts)

		resp := doJson(t, "POST", fmt.Sprintf("%s/items/%d/buy", ts.URL, itemID), "0xbuyer", buyRequest{Payment: 10})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJson(t, "POST", fmt.Sprintf("%s/items/%d/buy", ts.URL, itemID), "0xother", buyRequest{Payment: 10})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("registry failure is a bad gateway", func(t *testing.T) {
		broken := registry
		broken.transferErr = errors.New("registry down")

		ts := newTestServer(broken, stubPayout{})
		defer ts.Close()
		itemID := list(t, ts)

		resp := doJson(t, "POST", fmt.Sprintf("%s/items/%d/buy", ts.URL, itemID), "0xbuyer", buyRequest{Payment: 10})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestServer_Withdraw(t *testing.T) {
	registry := stubRegistry{owners: map[string]string{"asset-a": "0xseller"}}

	t.Run("empty balance conflicts", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/withdrawals", "0xnobody", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("pays out once", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/items", "0xseller", listRequest{AssetID: "asset-a", AskPrice: 10, Payment: 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp = doJson(t, "POST", ts.URL+"/items/1/buy", "0xbuyer", buyRequest{Payment: 10})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = doJson(t, "POST", ts.URL+"/withdrawals", "0xseller", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body payoutResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, uint64(10), body.Amount)

		resp = doJson(t, "POST", ts.URL+"/withdrawals", "0xseller", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("payout failure is a bad gateway", func(t *testing.T) {
		ts := newTestServer(registry, stubPayout{failErr: errors.New("bank down")})
		defer ts.Close()

		resp := doJson(t, "POST", ts.URL+"/items", "0xseller", listRequest{AssetID: "asset-a", AskPrice: 10, Payment: 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp = doJson(t, "POST", ts.URL+"/withdrawals", "0xmarket", nil)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestServer_Fee(t *testing.T) {
	registry := stubRegistry{owners: map[string]string{"asset-a": "0xseller"}}

	ts := newTestServer(registry, stubPayout{})
	defer ts.Close()

	resp := doJson(t, "GET", ts.URL+"/fee", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body feeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(1), body.ListingFee)

	resp = doJson(t, "PUT", ts.URL+"/fee", "0xseller", setFeeRequest{ListingFee: 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJson(t, "PUT", ts.URL+"/fee", "0xadmin", setFeeRequest{ListingFee: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(5), body.ListingFee)
}

func TestServer_Balance(t *testing.T) {
	registry := stubRegistry{owners: map[string]string{"asset-a": "0xseller"}}

	ts := newTestServer(registry, stubPayout{})
	defer ts.Close()

	resp := doJson(t, "POST", ts.URL+"/items", "0xseller", listRequest{AssetID: "asset-a", AskPrice: 10, Payment: 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJson(t, "GET", ts.URL+"/balances/0xmarket", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body balanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, uint64(1), body.Amount)
}
