// Package operatordelivery manages delivery layer of operator login.
package operatordelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/internal/apierror"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/web"
)

// Service provides service layer interface needed by operator delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package operatordelivery
type Service interface {
	Login(ctx context.Context, username, password string) (domain.OperatorSession, error)
}

// Handler facilitates operator delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns operator handler.
func NewHandler(ops Service) *Handler {
	return &Handler{service: ops}
}

type loginRequest struct {
	Username string `json:"username" binding:"required,alphanum"`
	Password string `json:"password" binding:"required,min=6"`
}

// Login handles http login request and returns an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		apierror.RespondBinding(gctx, err)
		return
	}

	session, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		apierror.Respond(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{
		AccessToken:          session.AccessToken,
		AccessTokenExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		Data: struct {
			Username string `json:"username"`
		}{session.Username},
	})
}
