package controllers

import (
	"net/http"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	"github.com/tillpoint/tillpoint-backend/pkg/change"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

type changeRequest struct {
	AmountDue      string `json:"amountDue" validate:"required"`
	AmountTendered string `json:"amountTendered" validate:"required"`
}

// ChangeBreakdown decomposes cash change into drawer denominations. Stateless;
// the register calls it from the payment screen before the drawer opens.
// Amounts arrive as strings and are parsed at the boundary so malformed or
// negative values never reach the drawer math.
func ChangeBreakdown(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload changeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		due, err := money.ParseAmount(payload.AmountDue)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount due"))
			return
		}
		tendered, err := money.ParseAmount(payload.AmountTendered)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount tendered"))
			return
		}

		breakdown, err := change.Compute(due, tendered)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}

type denominationView struct {
	Label string `json:"label"`
	Cents int64  `json:"value_cents"`
}

// ListDenominations returns the drawer slots in payout order so the register
// UI can render the drawer without hardcoding the currency set.
func ListDenominations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slots := change.Denominations()
		views := make([]denominationView, 0, len(slots))
		for _, slot := range slots {
			views = append(views, denominationView{Label: slot.Label, Cents: slot.Cents})
		}
		responses.WriteSuccess(w, views)
	}
}
