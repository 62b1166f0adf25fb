// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/sms-ledger/internal/accountdelivery"
	"github.com/go-petr/sms-ledger/internal/accountrepo"
	"github.com/go-petr/sms-ledger/internal/accountservice"
	"github.com/go-petr/sms-ledger/internal/apivalidator"
	"github.com/go-petr/sms-ledger/internal/invoicedelivery"
	"github.com/go-petr/sms-ledger/internal/invoicerepo"
	"github.com/go-petr/sms-ledger/internal/invoiceservice"
	"github.com/go-petr/sms-ledger/internal/invoicesweeper"
	"github.com/go-petr/sms-ledger/internal/ledgerdelivery"
	"github.com/go-petr/sms-ledger/internal/ledgerrepo"
	"github.com/go-petr/sms-ledger/internal/ledgerservice"
	"github.com/go-petr/sms-ledger/internal/middleware"
	"github.com/go-petr/sms-ledger/internal/operatordelivery"
	"github.com/go-petr/sms-ledger/internal/operatorservice"
	"github.com/go-petr/sms-ledger/internal/transactiondelivery"
	"github.com/go-petr/sms-ledger/internal/transactionrepo"
	"github.com/go-petr/sms-ledger/internal/transactionservice"
	"github.com/go-petr/sms-ledger/pkg/configpkg"
	"github.com/go-petr/sms-ledger/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config

	// Sweeper is nil when INVOICE_SWEEP_INTERVAL is zero.
	Sweeper *invoicesweeper.Worker

	// Ledger is exposed for in-process callers such as an SMS sending pipeline.
	Ledger *ledgerservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := apivalidator.Register(v); err != nil {
			return nil, err
		}
	}

	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, fmt.Errorf("cannot create token maker: %w", err)
	}

	accountRepo := accountrepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)
	invoiceRepo := invoicerepo.NewRepoPGS(conn)
	ledgerRepo := ledgerrepo.NewRepoPGS(conn, ledgerrepo.Options{
		LockTimeout:    config.LockTimeout,
		WalletCurrency: config.WalletCurrency,
	})

	accountService := accountservice.New(accountRepo, config.WalletCurrency)
	ledgerService := ledgerservice.New(ledgerRepo)
	transactionService := transactionservice.New(transactionRepo)
	invoiceService := invoiceservice.New(invoiceRepo, config.InvoiceGracePeriod)
	operatorService := operatorservice.New(operatorservice.Credentials{
		Username:     config.OperatorUsername,
		PasswordHash: config.OperatorPasswordHash,
	}, tokenMaker, config.AccessTokenDuration)

	accountHandler := accountdelivery.NewHandler(accountService)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)
	invoiceHandler := invoicedelivery.NewHandler(invoiceService)
	operatorHandler := operatordelivery.NewHandler(operatorService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.POST("/operators/login", operatorHandler.Login)

	businessRoutes := engine.Group("/businesses/:business_id", middleware.AuthMiddleware(tokenMaker))

	businessRoutes.GET("/balances", accountHandler.Balances)
	businessRoutes.GET("/accounts", accountHandler.List)
	businessRoutes.PUT("/accounts/:kind", accountHandler.GetOrCreate)

	businessRoutes.POST("/purchases", ledgerHandler.Purchase)
	businessRoutes.POST("/deductions", ledgerHandler.Deduct)
	businessRoutes.POST("/transfers", ledgerHandler.Transfer)

	businessRoutes.GET("/transactions", transactionHandler.List)
	businessRoutes.GET("/transactions/summary", transactionHandler.Summary)

	businessRoutes.GET("/invoices", invoiceHandler.List)
	businessRoutes.GET("/invoices/summary", invoiceHandler.Summary)
	businessRoutes.GET("/invoices/:invoice_number", invoiceHandler.Get)
	businessRoutes.POST("/invoices/:invoice_number/cancel", invoiceHandler.Cancel)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
		Ledger: ledgerService,
	}

	if config.InvoiceSweepInterval > 0 {
		server.Sweeper = invoicesweeper.New(invoiceService, config.InvoiceSweepInterval)
	}

	return server, nil
}
