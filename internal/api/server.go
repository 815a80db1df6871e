package api

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/nftbay/marketplace-engine/internal/marketplace"
	"github.com/nftbay/marketplace-engine/internal/repository"
	"go.uber.org/zap"
	"net/http"
	"strconv"
)

const walletHeader = "X-Wallet-Address"

// Server exposes the settlement engine over HTTP. Wallet/session handling
// lives upstream; the caller identity arrives as a verified header.
type Server struct {
	engine   *marketplace.Engine
	sales    repository.SaleRepository
	payments repository.PaymentRepository
}

func NewServer(engine *marketplace.Engine, sales repository.SaleRepository, payments repository.PaymentRepository) Server {
	return Server{engine, sales, payments}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/items", s.handleListItem).Methods("POST")
	r.HandleFunc("/items", s.handleOpenItems).Methods("GET")
	r.HandleFunc("/items/{itemId}", s.handleGetItem).Methods("GET")
	r.HandleFunc("/items/{itemId}/buy", s.handleBuy).Methods("POST")
	r.HandleFunc("/withdrawals", s.handleWithdraw).Methods("POST")
	r.HandleFunc("/claims", s.handleClaim).Methods("POST")
	r.HandleFunc("/balances/{payee}", s.handleGetBalance).Methods("GET")
	r.HandleFunc("/fee", s.handleGetFee).Methods("GET")
	r.HandleFunc("/fee", s.handleSetFee).Methods("PUT")
	r.HandleFunc("/sales", s.handleGetSales).Methods("GET")
	r.HandleFunc("/payments", s.handleGetPayments).Methods("GET")
	r.NotFoundHandler = notFoundHandler()

	return r
}

type listRequest struct {
	AssetID  string `json:"assetId"`
	AskPrice uint64 `json:"askPrice"`
	Payment  uint64 `json:"payment"`
}

type listResponse struct {
	ItemID uint64 `json:"itemId"`
}

func (s Server) handleListItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	itemID, err := s.engine.List(caller, req.AssetID, req.AskPrice, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJson(w, http.StatusCreated, listResponse{ItemID: itemID})
}

func (s Server) handleOpenItems(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, s.engine.OpenItems())
}

func (s Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := itemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	item, err := s.engine.GetItem(itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJson(w, http.StatusOK, item)
}

type buyRequest struct {
	Payment uint64 `json:"payment"`
}

func (s Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	itemID, err := itemId(r)
	if err != nil {
		http.Error(w, "Invalid item id", http.StatusBadRequest)
		return
	}

	var req buyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sale, err := s.engine.Buy(caller, itemID, req.Payment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJson(w, http.StatusOK, sale)
}

type payoutResponse struct {
	Amount uint64 `json:"amount"`
}

func (s Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	amount, err := s.engine.Withdraw(caller)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJson(w, http.StatusOK, payoutResponse{Amount: amount})
}

func (s Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	amount, err := s.engine.Claim(caller)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJson(w, http.StatusOK, payoutResponse{Amount: amount})
}

type balanceResponse struct {
	Payee  string `json:"payee"`
	Amount uint64 `json:"amount"`
}

func (s Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	payee := mux.Vars(r)["payee"]

	writeJson(w, http.StatusOK, balanceResponse{
		Payee:  payee,
		Amount: s.engine.PendingBalance(payee),
	})
}

type feeResponse struct {
	ListingFee uint64 `json:"listingFee"`
}

func (s Server) handleGetFee(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, feeResponse{ListingFee: s.engine.ListingFee()})
}

type setFeeRequest struct {
	ListingFee uint64 `json:"listingFee"`
}

func (s Server) handleSetFee(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerAddress(w, r)
	if !ok {
		return
	}

	var req setFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.engine.SetListingFee(caller, req.ListingFee); err != nil {
		http.Error(w, "Not authorized", http.StatusForbidden)
		return
	}

	writeJson(w, http.StatusOK, feeResponse{ListingFee: s.engine.ListingFee()})
}

func (s Server) handleGetSales(w http.ResponseWriter, r *http.Request) {
	size, from := pagination(r)

	var (
		sales []entity.Sale
		err   error
	)

	if seller := r.URL.Query().Get("seller"); seller != "" {
		sales, err = s.sales.GetSalesBySeller(seller, size, from)
	} else if buyer := r.URL.Query().Get("buyer"); buyer != "" {
		sales, err = s.sales.GetSalesByBuyer(buyer, size, from)
	} else {
		http.Error(w, "seller or buyer required", http.StatusBadRequest)
		return
	}

	if err != nil {
		zap.L().With(zap.Error(err)).Error("Api: Failed to get sales")
		http.Error(w, "Sales not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, http.StatusOK, sales)
}

func (s Server) handleGetPayments(w http.ResponseWriter, r *http.Request) {
	payee := r.URL.Query().Get("payee")
	if payee == "" {
		http.Error(w, "payee required", http.StatusBadRequest)
		return
	}

	size, from := pagination(r)

	payments, err := s.payments.GetPaymentsForPayee(payee, size, from)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Api: Failed to get payments")
		http.Error(w, "Payments not available", http.StatusInternalServerError)
		return
	}

	writeJson(w, http.StatusOK, payments)
}

func callerAddress(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := r.Header.Get(walletHeader)
	if caller == "" {
		http.Error(w, "Wallet address required", http.StatusUnauthorized)
		return "", false
	}

	return caller, true
}

func itemId(r *http.Request) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)["itemId"], 10, 64)
}

func pagination(r *http.Request) (size, from int) {
	size = 25
	from = 0

	if v, err := strconv.Atoi(r.URL.Query().Get("size")); err == nil && v > 0 && v <= 100 {
		size = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("from")); err == nil && v >= 0 {
		from = v
	}

	return size, from
}

func writeJson(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch marketplace.KindOf(err) {
	case marketplace.KindValidation:
		status = http.StatusBadRequest
	case marketplace.KindConflict:
		status = http.StatusConflict
	case marketplace.KindExternal:
		status = http.StatusBadGateway
	}

	http.Error(w, err.Error(), status)
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
