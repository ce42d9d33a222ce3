package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	settingsvc "github.com/tillpoint/tillpoint-backend/internal/settings"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type settingsRequest struct {
	TaxRate          decimal.Decimal `json:"taxRate"`
	DebitFeePercent  decimal.Decimal `json:"debitFeePercent"`
	CreditFeePercent decimal.Decimal `json:"creditFeePercent"`
	BusinessName     string          `json:"businessName"`
	Address          string          `json:"address"`
	Phone            string          `json:"phone"`
	LogoURL          string          `json:"logoUrl"`
	FooterNote       string          `json:"footerNote"`
}

func GetSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// ReplaceSettings is a whole-record PUT: fields omitted from the payload are
// cleared, not preserved.
func ReplaceSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload settingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.Replace(r.Context(), settingsvc.ReplaceInput{
			TaxRate:          payload.TaxRate,
			DebitFeePercent:  payload.DebitFeePercent,
			CreditFeePercent: payload.CreditFeePercent,
			BusinessName:     payload.BusinessName,
			Address:          payload.Address,
			Phone:            payload.Phone,
			LogoURL:          payload.LogoURL,
			FooterNote:       payload.FooterNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}
