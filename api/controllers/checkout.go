package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	ordersvc "github.com/tillpoint/tillpoint-backend/internal/orders"
	"github.com/tillpoint/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type checkoutRequest struct {
	RegisterID    string  `json:"registerId" validate:"required"`
	Operator      string  `json:"operator,omitempty"`
	CustomerID    *string `json:"customerId,omitempty"`
	PaymentMethod string  `json:"paymentMethod" validate:"required"`
}

// Checkout commits the register's cart into an order. The cart is cleared
// only after the order and its outbox event land in the same transaction.
func Checkout(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := ordersvc.CommitInput{
			RegisterID:    payload.RegisterID,
			Operator:      payload.Operator,
			PaymentMethod: method,
		}
		if payload.CustomerID != nil && *payload.CustomerID != "" {
			customerID, parseErr := uuid.Parse(*payload.CustomerID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid customer id"))
				return
			}
			input.CustomerID = &customerID
		}

		order, err := svc.Commit(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
