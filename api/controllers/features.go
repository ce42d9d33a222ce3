package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	featuresvc "github.com/tillpoint/tillpoint-backend/internal/features"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

func ListFeatures(svc featuresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flags, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, flags)
	}
}

// ReplaceFeatures accepts a full flag map. Unknown keys are rejected so a
// stale client cannot invent flags the engine will never read.
func ReplaceFeatures(svc featuresvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]bool
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}
		flags, err := svc.Replace(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, flags)
	}
}
