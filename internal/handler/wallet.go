package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/store"
)

// WalletHandler serves wallets, transactions and payment methods.
type WalletHandler struct {
	Store *store.Store
}

func NewWalletHandler(s *store.Store) *WalletHandler { return &WalletHandler{Store: s} }

type adjustReq struct {
	Amount decimal.Decimal `json:"amount"`
}

// GetWallet handles GET /v1/users/:id/wallet.
func (h *WalletHandler) GetWallet(c echo.Context) error {
	w, ok := h.Store.GetWallet(c.Param("id"))
	if !ok {
		return notFound(c, "wallet")
	}
	return c.JSON(http.StatusOK, w)
}

// Adjust handles POST /v1/users/:id/wallet/adjust. It changes the balance
// without recording a transaction.
func (h *WalletHandler) Adjust(c echo.Context) error {
	var req adjustReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	w, ok := h.Store.UpdateWalletBalance(c.Param("id"), req.Amount)
	if !ok {
		return notFound(c, "wallet")
	}
	return c.JSON(http.StatusOK, w)
}

// ApplyLedger handles POST /v1/users/:id/wallet/ledger. The balance change
// and its completed transaction are applied together.
func (h *WalletHandler) ApplyLedger(c echo.Context) error {
	var req model.LedgerEntry
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.UserID = c.Param("id")
	if req.Type == "" {
		return badRequest(c, "type required")
	}
	w, tx, ok := h.Store.ApplyLedgerEntry(req)
	if !ok {
		return notFound(c, "wallet")
	}
	return c.JSON(http.StatusCreated, echo.Map{"wallet": w, "transaction": tx})
}

// CreateTransaction handles POST /v1/transactions. The wallet balance is
// not touched; status defaults to pending.
func (h *WalletHandler) CreateTransaction(c echo.Context) error {
	var req model.NewTransaction
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.UserID == "" || req.Type == "" {
		return badRequest(c, "user_id/type required")
	}
	if req.Status == "" {
		req.Status = model.TxPending
	}
	return c.JSON(http.StatusCreated, h.Store.CreateTransaction(req))
}

func (h *WalletHandler) GetTransaction(c echo.Context) error {
	tx, ok := h.Store.GetTransactionByID(c.Param("id"))
	if !ok {
		return notFound(c, "transaction")
	}
	return c.JSON(http.StatusOK, tx)
}

func (h *WalletHandler) UpdateTransaction(c echo.Context) error {
	var p model.TransactionPatch
	if err := c.Bind(&p); err != nil {
		return badRequest(c, "invalid body")
	}
	tx, ok := h.Store.UpdateTransaction(c.Param("id"), p)
	if !ok {
		return notFound(c, "transaction")
	}
	return c.JSON(http.StatusOK, tx)
}

// Transactions handles GET /v1/users/:id/transactions, newest first.
func (h *WalletHandler) Transactions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.GetTransactionsByUser(c.Param("id")))
}

// AddPaymentMethod handles POST /v1/users/:id/payment-methods.
func (h *WalletHandler) AddPaymentMethod(c echo.Context) error {
	var req model.NewPaymentMethod
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.UserID = c.Param("id")
	switch req.Type {
	case model.PaymentCard, model.PaymentBank, model.PaymentPaypal:
	default:
		return badRequest(c, "type must be card, bank or paypal")
	}
	if r := []rune(req.Last4); len(r) > 4 {
		req.Last4 = string(r[len(r)-4:])
	}
	return c.JSON(http.StatusCreated, h.Store.CreatePaymentMethod(req))
}

func (h *WalletHandler) PaymentMethods(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.GetPaymentMethodsByUser(c.Param("id")))
}

// SetDefault handles PUT /v1/users/:id/payment-methods/:pm/default.
func (h *WalletHandler) SetDefault(c echo.Context) error {
	pm, ok := h.Store.SetDefaultPaymentMethod(c.Param("id"), c.Param("pm"))
	if !ok {
		return notFound(c, "payment method")
	}
	return c.JSON(http.StatusOK, pm)
}
