// Package ledgerdelivery manages delivery layer of the purchase, deduction and transfer
// workflows.
package ledgerdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/internal/apierror"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/web"
	"github.com/shopspring/decimal"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Deduct(ctx context.Context, arg domain.DeductParams) bool
	Purchase(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseResult, error)
	Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferResult, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(ls Service) *Handler {
	return &Handler{service: ls}
}

type businessRequest struct {
	BusinessID string `uri:"business_id" binding:"required,max=64"`
}

type purchaseRequest struct {
	Kind          domain.AccountKind `json:"kind" binding:"required,account_kind"`
	Amount        decimal.Decimal    `json:"amount" binding:"positive_amount"`
	PaymentMethod string             `json:"payment_method" binding:"required,payment_method"`
	Description   string             `json:"description" binding:"max=255"`
}

// Purchase handles http request to credit an account and issue a paid invoice.
func (h *Handler) Purchase(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri businessRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	var req purchaseRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	result, err := h.service.Purchase(ctx, domain.PurchaseParams{
		BusinessID:    uri.BusinessID,
		Kind:          req.Kind,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Description:   req.Description,
	})
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: result})
}

type deductRequest struct {
	Kind        domain.AccountKind `json:"kind" binding:"required,account_kind"`
	Amount      decimal.Decimal    `json:"amount" binding:"positive_amount"`
	Description string             `json:"description" binding:"max=255"`
	ReferenceID string             `json:"reference_id" binding:"max=128"`
}

type deductResponse struct {
	Deducted bool `json:"deducted"`
}

// Deduct handles http request to debit an account as usage.
//
// A well-formed request always gets 200; the outcome is in the deducted flag.
func (h *Handler) Deduct(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri businessRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	var req deductRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	deducted := h.service.Deduct(ctx, domain.DeductParams{
		BusinessID:  uri.BusinessID,
		Kind:        req.Kind,
		Amount:      req.Amount,
		Description: req.Description,
		ReferenceID: req.ReferenceID,
	})

	gctx.JSON(http.StatusOK, web.Response{Data: deductResponse{Deducted: deducted}})
}

type transferRequest struct {
	FromKind    domain.AccountKind `json:"from_kind" binding:"required,account_kind"`
	ToKind      domain.AccountKind `json:"to_kind" binding:"required,account_kind"`
	Amount      decimal.Decimal    `json:"amount" binding:"positive_amount"`
	Description string             `json:"description" binding:"max=255"`
}

// Transfer handles http request to move an amount between the two accounts of a business.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri businessRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	result, err := h.service.Transfer(ctx, domain.TransferParams{
		BusinessID:  uri.BusinessID,
		FromKind:    req.FromKind,
		ToKind:      req.ToKind,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: result})
}
