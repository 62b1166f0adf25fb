// Package transactiondelivery manages delivery layer of the transaction history.
package transactiondelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/internal/apierror"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	List(ctx context.Context, arg domain.ListTransactionsParams) (domain.TransactionPage, error)
	Summary(ctx context.Context, businessID string) ([]domain.TransactionSummary, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

type businessRequest struct {
	BusinessID string `uri:"business_id" binding:"required,max=64"`
}

type listRequest struct {
	Kind        domain.TransactionKind `form:"kind" binding:"omitempty,transaction_kind"`
	AccountKind domain.AccountKind     `form:"account_kind" binding:"omitempty,account_kind"`
	Page        int32                  `form:"page,default=1" binding:"min=1"`
	Limit       int32                  `form:"limit,default=20" binding:"min=1,max=100"`
}

// List handles http request to list transactions of a business, newest first.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri businessRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	page, err := h.service.List(ctx, domain.ListTransactionsParams{
		BusinessID:  uri.BusinessID,
		Kind:        req.Kind,
		AccountKind: req.AccountKind,
		Page:        req.Page,
		Limit:       req.Limit,
	})
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: page})
}

// Summary handles http request to aggregate transactions of a business.
func (h *Handler) Summary(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var uri businessRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	summary, err := h.service.Summary(ctx, uri.BusinessID)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			Summary []domain.TransactionSummary `json:"summary"`
		}{summary},
	})
}
