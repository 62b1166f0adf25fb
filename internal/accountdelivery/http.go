// Package accountdelivery manages delivery layer of the account registry.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/internal/apierror"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	GetOrCreate(ctx context.Context, businessID string, kind domain.AccountKind) (domain.Account, error)
	GetAllBalances(ctx context.Context, businessID string) (domain.Balances, error)
	List(ctx context.Context, businessID string) ([]domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type businessRequest struct {
	BusinessID string `uri:"business_id" binding:"required,max=64"`
}

type accountRequest struct {
	BusinessID string             `uri:"business_id" binding:"required,max=64"`
	Kind       domain.AccountKind `uri:"kind" binding:"required,account_kind"`
}

// GetOrCreate handles http request to resolve the account of a business, creating it on first
// access.
func (h *Handler) GetOrCreate(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req accountRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	account, err := h.service.GetOrCreate(ctx, req.BusinessID, req.Kind)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			Account domain.Account `json:"account"`
		}{account},
	})
}

// Balances handles http request to get both balances of a business.
func (h *Handler) Balances(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req businessRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	balances, err := h.service.GetAllBalances(ctx, req.BusinessID)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			Balances domain.Balances `json:"balances"`
		}{balances},
	})
}

// List handles http request to list the accounts of a business.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req businessRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	accounts, err := h.service.List(ctx, req.BusinessID)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		Data: struct {
			Accounts []domain.Account `json:"accounts"`
		}{accounts},
	})
}
