package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordersvc "github.com/tillpoint/tillpoint-backend/internal/orders"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type stubCheckoutService struct {
	lastInput ordersvc.CommitInput
	order     *models.Order
	err       error
}

func (s *stubCheckoutService) Commit(ctx context.Context, input ordersvc.CommitInput) (*models.Order, error) {
	s.lastInput = input
	return s.order, s.err
}

func (s *stubCheckoutService) Cancel(ctx context.Context, input ordersvc.CancelInput) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCheckoutService) Uncancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubCheckoutService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubCheckoutService) List(ctx context.Context) ([]models.Order, error) {
	return nil, nil
}

func TestCheckout(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	post := func(svc ordersvc.Service, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		Checkout(svc, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("missing payment method", func(t *testing.T) {
		rec := post(&stubCheckoutService{}, `{"registerId":"reg-1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown payment method", func(t *testing.T) {
		rec := post(&stubCheckoutService{}, `{"registerId":"reg-1","paymentMethod":"barter"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed customer id", func(t *testing.T) {
		rec := post(&stubCheckoutService{}, `{"registerId":"reg-1","paymentMethod":"cash","customerId":"nope"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		customerID := uuid.New()
		orderID := uuid.New()
		stub := &stubCheckoutService{order: &models.Order{
			ID:            orderID,
			PaymentMethod: enums.PaymentMethodDebit,
			Total:         decimal.RequireFromString("12.34"),
			GrandTotal:    decimal.RequireFromString("12.71"),
		}}
		rec := post(stub, `{"registerId":"reg-1","operator":"dana","paymentMethod":"debit","customerId":"`+customerID.String()+`"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.lastInput.RegisterID != "reg-1" || stub.lastInput.Operator != "dana" {
			t.Fatalf("unexpected commit input: %+v", stub.lastInput)
		}
		if stub.lastInput.PaymentMethod != enums.PaymentMethodDebit {
			t.Fatalf("expected debit, got %s", stub.lastInput.PaymentMethod)
		}
		if stub.lastInput.CustomerID == nil || *stub.lastInput.CustomerID != customerID {
			t.Fatalf("customer id not forwarded: %+v", stub.lastInput.CustomerID)
		}

		var body struct {
			Data models.Order `json:"data"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body.Data.ID != orderID {
			t.Fatalf("unexpected order in response: %+v", body.Data)
		}
	})

	t.Run("empty cart surfaces as state conflict", func(t *testing.T) {
		stub := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")}
		rec := post(stub, `{"registerId":"reg-1","paymentMethod":"cash"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
	})
}
