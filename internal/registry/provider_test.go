package registry

import (
	"encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/assets/asset-a/owner", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"owner": "0xseller"})
	})
	mux.HandleFunc("/assets/asset-a/approvals/0xoperator", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"approved": true})
	})
	mux.HandleFunc("/assets/asset-a/transfers", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			From string `json:"from"`
			To   string `json:"to"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "0xseller", body.From)
		assert.Equal(t, "0xbuyer", body.To)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/assets/asset-frozen/transfers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func TestProvider_OwnerOf(t *testing.T) {
	server := newRegistryServer(t)
	p := NewProvider(server.URL, 5, 0)

	owner, err := p.OwnerOf("asset-a")
	require.NoError(t, err)
	assert.Equal(t, "0xseller", owner)

	_, err = p.OwnerOf("asset-missing")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestProvider_IsApprovedToTransfer(t *testing.T) {
	server := newRegistryServer(t)
	p := NewProvider(server.URL, 5, 0)

	approved, err := p.IsApprovedToTransfer("asset-a", "0xoperator")
	require.NoError(t, err)
	assert.True(t, approved)

	_, err = p.IsApprovedToTransfer("asset-missing", "0xoperator")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestProvider_Transfer(t *testing.T) {
	server := newRegistryServer(t)
	p := NewProvider(server.URL, 5, 0)

	require.NoError(t, p.Transfer("asset-a", "0xseller", "0xbuyer"))

	assert.ErrorIs(t, p.Transfer("asset-frozen", "0xseller", "0xbuyer"), ErrTransferRejected)
	assert.ErrorIs(t, p.Transfer("asset-missing", "0xseller", "0xbuyer"), ErrAssetNotFound)
}
