// Package apierror maps domain errors to admin API responses.
package apierror

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"
	"github.com/go-petr/sms-ledger/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Status returns the HTTP status for err and the error safe to show to the client.
func Status(err error) (int, error) {
	switch {
	case domain.IsValidation(err), errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest, err
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrDestinationAccountMissing),
		errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, err
	case errors.Is(err, domain.ErrInvalidInvoiceTransition), errors.Is(err, domain.ErrReferenceConflict):
		return http.StatusConflict, err
	case errors.Is(err, domain.ErrConcurrencyConflict):
		// Lock contention; the client may retry the whole request.
		return http.StatusServiceUnavailable, err
	case errors.Is(err, domain.ErrWrongCredentials), errors.Is(err, domain.ErrLoginDisabled):
		return http.StatusUnauthorized, err
	}

	return http.StatusInternalServerError, errorspkg.ErrInternal
}

// Respond writes the error response for err.
func Respond(gctx *gin.Context, err error) {
	code, public := Status(err)
	if code == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
	}

	gctx.JSON(code, web.Error(public))
}

// RespondBinding writes the 400 response for a request that failed to bind.
func RespondBinding(gctx *gin.Context, err error) {
	zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		field := ve[0]
		gctx.JSON(http.StatusBadRequest, web.Response{Error: field.Field() + web.GetErrorMsg(field)})

		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}
