package controllers

import (
	"net/http"
	"strings"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/api/validators"
	customersvc "github.com/tillpoint/tillpoint-backend/internal/customers"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

type resolveCustomerRequest struct {
	Name      string  `json:"name" validate:"required"`
	Phone     string  `json:"phone" validate:"required"`
	City      *string `json:"city,omitempty"`
	Overwrite bool    `json:"overwrite"`
}

// ResolveCustomer creates or updates the customer identified by the phone
// number. A phone collision without overwrite returns a conflict carrying the
// existing record so the register can prompt before clobbering it.
func ResolveCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resolveCustomerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var city *string
		if payload.City != nil {
			trimmed := validators.SanitizeString(*payload.City, 120)
			city = &trimmed
		}
		customer, created, err := svc.Resolve(r.Context(), customersvc.ResolveInput{
			Name:      validators.SanitizeString(payload.Name, 120),
			Phone:     validators.SanitizeString(payload.Phone, 32),
			City:      city,
			Overwrite: payload.Overwrite,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, customer)
	}
}

func GetCustomer(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customer)
	}
}

// ListCustomers returns all customers, or a phone-fragment search when the
// "phone" query parameter is present.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fragment := strings.TrimSpace(r.URL.Query().Get("phone"))
		if fragment != "" {
			limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			matches, err := svc.Search(r.Context(), fragment, limit)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, matches)
			return
		}

		customers, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, customers)
	}
}
