package ledgerdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/go-petr/sms-ledger/internal/apivalidator"
	"github.com/go-petr/sms-ledger/internal/domain"
	"github.com/go-petr/sms-ledger/internal/middleware"
	"github.com/go-petr/sms-ledger/internal/test"
	"github.com/go-petr/sms-ledger/pkg/errorspkg"
	"github.com/go-petr/sms-ledger/pkg/randompkg"
	"github.com/go-petr/sms-ledger/pkg/tokenpkg"
	"github.com/go-petr/sms-ledger/pkg/web"
	"github.com/golang/mock/gomock"
)

var tokenMaker tokenpkg.Maker

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	var err error

	tokenMaker, err = tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		fmt.Println("cannot create token maker:", err)
		os.Exit(1)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := apivalidator.Register(v); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

// cmpMatcher matches arguments holding decimals by value rather than by representation.
type cmpMatcher struct {
	want any
}

func (m cmpMatcher) Matches(x any) bool { return cmp.Equal(m.want, x) }
func (m cmpMatcher) String() string     { return fmt.Sprintf("is equal to %+v", m.want) }

func eqParams(want any) gomock.Matcher {
	return cmpMatcher{want: want}
}

func serve(t *testing.T, service *MockService, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(service)

	server := gin.New()
	group := server.Group("/businesses/:business_id", middleware.AuthMiddleware(tokenMaker))
	group.POST("/purchases", h.Purchase)
	group.POST("/deductions", h.Deduct)
	group.POST("/transfers", h.Transfer)

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Encoding request body error: %v", err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, randompkg.Username(), time.Minute)
	if err != nil {
		t.Fatalf("middleware.AddAuthorization returned error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestPurchase(t *testing.T) {
	businessID := randompkg.BusinessID()
	url := "/businesses/" + businessID + "/purchases"

	account := test.RandomAccount(businessID, domain.AccountKindWallet)
	amount := decimal.RequireFromString("100.50")
	tx := test.RandomTransaction(account, domain.TransactionKindPurchase, amount)
	invoice := test.RandomInvoice(businessID, domain.InvoiceStatusPaid)
	result := domain.PurchaseResult{Transaction: tx, Invoice: invoice, NewBalance: tx.BalanceAfter}

	testCases := []struct {
		name           string
		body           gin.H
		buildStubs     func(s *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			body: gin.H{"kind": "WALLET", "amount": "100.50", "payment_method": "card"},
			buildStubs: func(s *MockService) {
				arg := domain.PurchaseParams{
					BusinessID:    businessID,
					Kind:          domain.AccountKindWallet,
					Amount:        amount,
					PaymentMethod: domain.PaymentMethodCard,
				}
				s.EXPECT().Purchase(gomock.Any(), eqParams(arg)).Times(1).Return(result, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "NumericAmount",
			body: gin.H{"kind": "WALLET", "amount": 100.5, "payment_method": "card"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(1).Return(result, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "InvalidKind",
			body: gin.H{"kind": "VOICE", "amount": "10", "payment_method": "card"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Kind must be WALLET or SMS",
		},
		{
			name: "ZeroAmount",
			body: gin.H{"kind": "SMS", "amount": "0", "payment_method": "card"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount must be a positive decimal number",
		},
		{
			name: "MissingPaymentMethod",
			body: gin.H{"kind": "SMS", "amount": "10"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "PaymentMethod is required",
		},
		{
			name: "FractionalCredits",
			body: gin.H{"kind": "SMS", "amount": "1.5", "payment_method": "cash"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.PurchaseResult{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name: "ConcurrencyConflict",
			body: gin.H{"kind": "WALLET", "amount": "10", "payment_method": "card"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.PurchaseResult{}, domain.ErrConcurrencyConflict)
			},
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      domain.ErrConcurrencyConflict.Error(),
		},
		{
			name: "InternalError",
			body: gin.H{"kind": "WALLET", "amount": "10", "payment_method": "card"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Purchase(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.PurchaseResult{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			recorder := serve(t, service, http.MethodPost, url, tc.body)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &domain.PurchaseResult{}
			res := web.Response{Data: data}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(result, *data); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeduct(t *testing.T) {
	businessID := randompkg.BusinessID()
	url := "/businesses/" + businessID + "/deductions"

	testCases := []struct {
		name           string
		body           gin.H
		buildStubs     func(s *MockService)
		wantStatusCode int
		wantDeducted   bool
		wantError      string
	}{
		{
			name: "Deducted",
			body: gin.H{"kind": "SMS", "amount": "1", "reference_id": "msg_1", "description": "OTP"},
			buildStubs: func(s *MockService) {
				arg := domain.DeductParams{
					BusinessID:  businessID,
					Kind:        domain.AccountKindSMS,
					Amount:      decimal.NewFromInt(1),
					Description: "OTP",
					ReferenceID: "msg_1",
				}
				s.EXPECT().Deduct(gomock.Any(), eqParams(arg)).Times(1).Return(true)
			},
			wantStatusCode: http.StatusOK,
			wantDeducted:   true,
		},
		{
			name: "NotDeducted",
			body: gin.H{"kind": "SMS", "amount": "1000"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Deduct(gomock.Any(), gomock.Any()).Times(1).Return(false)
			},
			wantStatusCode: http.StatusOK,
			wantDeducted:   false,
		},
		{
			name: "MalformedBody",
			body: gin.H{"kind": "SMS", "amount": "ten"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Deduct(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			recorder := serve(t, service, http.MethodPost, url, tc.body)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &deductResponse{}
			res := web.Response{Data: data}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error == "" {
					t.Errorf("resp.Error is empty, want a binding error")
				}

				return
			}

			if data.Deducted != tc.wantDeducted {
				t.Errorf("data.Deducted=%v, want %v", data.Deducted, tc.wantDeducted)
			}
		})
	}
}

func TestTransfer(t *testing.T) {
	businessID := randompkg.BusinessID()
	url := "/businesses/" + businessID + "/transfers"

	wallet := test.RandomAccount(businessID, domain.AccountKindWallet)
	sms := test.RandomAccount(businessID, domain.AccountKindSMS)
	amount := decimal.NewFromInt(50)

	result := domain.TransferResult{
		FromAccount: wallet,
		ToAccount:   sms,
		OutTx:       test.RandomTransaction(wallet, domain.TransactionKindTransferOut, amount.Neg()),
		InTx:        test.RandomTransaction(sms, domain.TransactionKindTransferIn, amount),
	}

	testCases := []struct {
		name           string
		body           gin.H
		buildStubs     func(s *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			body: gin.H{"from_kind": "WALLET", "to_kind": "SMS", "amount": "50"},
			buildStubs: func(s *MockService) {
				arg := domain.TransferParams{
					BusinessID: businessID,
					FromKind:   domain.AccountKindWallet,
					ToKind:     domain.AccountKindSMS,
					Amount:     amount,
				}
				s.EXPECT().Transfer(gomock.Any(), eqParams(arg)).Times(1).Return(result, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "SameAccount",
			body: gin.H{"from_kind": "SMS", "to_kind": "SMS", "amount": "5"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.TransferResult{}, domain.ErrSameAccount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSameAccount.Error(),
		},
		{
			name: "InsufficientFunds",
			body: gin.H{"from_kind": "WALLET", "to_kind": "SMS", "amount": "500"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.TransferResult{}, domain.ErrInsufficientFunds)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name: "DestinationMissing",
			body: gin.H{"from_kind": "WALLET", "to_kind": "SMS", "amount": "5"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(1).
					Return(domain.TransferResult{}, domain.ErrDestinationAccountMissing)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrDestinationAccountMissing.Error(),
		},
		{
			name: "MissingFromKind",
			body: gin.H{"to_kind": "SMS", "amount": "5"},
			buildStubs: func(s *MockService) {
				s.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "FromKind is required",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			recorder := serve(t, service, http.MethodPost, url, tc.body)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &domain.TransferResult{}
			res := web.Response{Data: data}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(result, *data); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
