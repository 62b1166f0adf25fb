package invoicedelivery

import (
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

func serve(t *testing.T, service *MockService, method, url string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(service)

	server := gin.New()
	group := server.Group("/businesses/:business_id", middleware.AuthMiddleware(tokenMaker))
	group.GET("/invoices", h.List)
	group.GET("/invoices/summary", h.Summary)
	group.GET("/invoices/:invoice_number", h.Get)
	group.POST("/invoices/:invoice_number/cancel", h.Cancel)

	req, err := http.NewRequest(method, url, nil)
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

func decode(t *testing.T, recorder *httptest.ResponseRecorder, data any) web.Response {
	t.Helper()

	res := web.Response{Data: data}
	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Fatalf("Decoding response body error: %v", err)
	}

	return res
}

func TestList(t *testing.T) {
	businessID := randompkg.BusinessID()
	base := "/businesses/" + businessID + "/invoices"

	page := domain.InvoicePage{
		Items: []domain.Invoice{
			test.RandomInvoice(businessID, domain.InvoiceStatusOverdue),
		},
		Pagination: domain.NewPagination(1, 10, 1),
	}

	testCases := []struct {
		name           string
		query          string
		buildStubs     func(s *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:  "OK",
			query: "?status=overdue&page=1&limit=10",
			buildStubs: func(s *MockService) {
				arg := domain.ListInvoicesParams{
					BusinessID: businessID,
					Status:     domain.InvoiceStatusOverdue,
					Page:       1,
					Limit:      10,
				}
				s.EXPECT().List(gomock.Any(), gomock.Eq(arg)).Times(1).Return(page, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:  "InvalidStatus",
			query: "?status=void",
			buildStubs: func(s *MockService) {
				s.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Status must be pending, paid, overdue or cancelled",
		},
		{
			name:  "InvalidPage",
			query: "?page=0",
			buildStubs: func(s *MockService) {
				s.EXPECT().List(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Page must be at least 1",
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

			recorder := serve(t, service, http.MethodGet, base+tc.query)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &domain.InvoicePage{}
			res := decode(t, recorder, data)

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(page, *data); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGet(t *testing.T) {
	businessID := randompkg.BusinessID()
	invoice := test.RandomInvoice(businessID, domain.InvoiceStatusPaid)

	testCases := []struct {
		name           string
		buildStubs     func(s *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			buildStubs: func(s *MockService) {
				s.EXPECT().Get(gomock.Any(), gomock.Eq(businessID), gomock.Eq(invoice.InvoiceNumber)).
					Times(1).Return(invoice, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "NotFound",
			buildStubs: func(s *MockService) {
				s.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).Return(domain.Invoice{}, domain.ErrInvoiceNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrInvoiceNotFound.Error(),
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

			url := fmt.Sprintf("/businesses/%s/invoices/%s", businessID, invoice.InvoiceNumber)
			recorder := serve(t, service, http.MethodGet, url)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &invoiceData{}
			res := decode(t, recorder, data)

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(invoice, data.Invoice); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	businessID := randompkg.BusinessID()
	invoice := test.RandomInvoice(businessID, domain.InvoiceStatusCancelled)

	testCases := []struct {
		name           string
		buildStubs     func(s *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			buildStubs: func(s *MockService) {
				s.EXPECT().Cancel(gomock.Any(), gomock.Eq(businessID), gomock.Eq(invoice.InvoiceNumber)).
					Times(1).Return(invoice, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "AlreadyPaid",
			buildStubs: func(s *MockService) {
				s.EXPECT().Cancel(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).Return(domain.Invoice{}, domain.ErrInvalidInvoiceTransition)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrInvalidInvoiceTransition.Error(),
		},
		{
			name: "InternalError",
			buildStubs: func(s *MockService) {
				s.EXPECT().Cancel(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).Return(domain.Invoice{}, errorspkg.ErrInternal)
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

			url := fmt.Sprintf("/businesses/%s/invoices/%s/cancel", businessID, invoice.InvoiceNumber)
			recorder := serve(t, service, http.MethodPost, url)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			data := &invoiceData{}
			res := decode(t, recorder, data)

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if data.Invoice.Status != domain.InvoiceStatusCancelled {
				t.Errorf("data.Invoice.Status=%v, want %v", data.Invoice.Status, domain.InvoiceStatusCancelled)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	businessID := randompkg.BusinessID()
	summary := []domain.InvoiceSummary{
		{Status: domain.InvoiceStatusPaid, Count: 4, Total: decimal.RequireFromString("420.25")},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewMockService(ctrl)
	service.EXPECT().Summary(gomock.Any(), gomock.Eq(businessID)).Times(1).Return(summary, nil)

	recorder := serve(t, service, http.MethodGet, "/businesses/"+businessID+"/invoices/summary")
	if recorder.Code != http.StatusOK {
		t.Fatalf("Status code: got %v, want %v", recorder.Code, http.StatusOK)
	}

	data := &struct {
		Summary []domain.InvoiceSummary `json:"summary"`
	}{}
	decode(t, recorder, data)

	if diff := cmp.Diff(summary, data.Summary); diff != "" {
		t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
	}
}
