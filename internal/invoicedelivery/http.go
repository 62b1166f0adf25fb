// Package invoicedelivery manages delivery layer of invoices.
package invoicedelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/internal/apierror"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/web"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by invoice delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package invoicedelivery
type Service interface {
	List(ctx context.Context, arg domain.ListInvoicesParams) (domain.InvoicePage, error)
	Get(ctx context.Context, businessID, invoiceNumber string) (domain.Invoice, error)
	Cancel(ctx context.Context, businessID, invoiceNumber string) (domain.Invoice, error)
	Summary(ctx context.Context, businessID string) ([]domain.InvoiceSummary, error)
}

// Handler facilitates invoice delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns invoice handler.
func NewHandler(is Service) *Handler {
	return &Handler{service: is}
}

type businessRequest struct {
	BusinessID string `uri:"business_id" binding:"required,max=64"`
}

type invoiceRequest struct {
	BusinessID    string `uri:"business_id" binding:"required,max=64"`
	InvoiceNumber string `uri:"invoice_number" binding:"required,max=32"`
}

type listRequest struct {
	Status domain.InvoiceStatus `form:"status" binding:"omitempty,invoice_status"`
	Page   int32                `form:"page,default=1" binding:"min=1"`
	Limit  int32                `form:"limit,default=20" binding:"min=1,max=100"`
}

type invoiceData struct {
	Invoice domain.Invoice `json:"invoice"`
}

// List handles http request to list invoices of a business.
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

	page, err := h.service.List(ctx, domain.ListInvoicesParams{
		BusinessID: uri.BusinessID,
		Status:     req.Status,
		Page:       req.Page,
		Limit:      req.Limit,
	})
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: page})
}

// Get handles http request to get one invoice of a business.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req invoiceRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	invoice, err := h.service.Get(ctx, req.BusinessID, req.InvoiceNumber)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: invoiceData{invoice}})
}

// Cancel handles http request to cancel a pending or overdue invoice.
func (h *Handler) Cancel(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req invoiceRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	invoice, err := h.service.Cancel(ctx, req.BusinessID, req.InvoiceNumber)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	zerolog.Ctx(ctx).Info().Str("invoice_number", invoice.InvoiceNumber).Msg("invoice cancelled")

	gctx.JSON(http.StatusOK, web.Response{Data: invoiceData{invoice}})
}

// Summary handles http request to aggregate invoices of a business by status.
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
			Summary []domain.InvoiceSummary `json:"summary"`
		}{summary},
	})
}
