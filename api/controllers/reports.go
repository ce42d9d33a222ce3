package controllers

import (
	"net/http"

	"github.com/tillpoint/tillpoint-backend/api/responses"
	"github.com/tillpoint/tillpoint-backend/internal/receipts"
	reportsvc "github.com/tillpoint/tillpoint-backend/internal/reports"
	settingsvc "github.com/tillpoint/tillpoint-backend/internal/settings"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
)

// SalesReport aggregates all stored orders. "?format=html" returns the
// printable rendering instead of JSON.
func SalesReport(reports reportsvc.Service, settings settingsvc.Service, renderer *receipts.Renderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := reports.Sales(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if r.URL.Query().Get("format") != "html" {
			responses.WriteSuccess(w, report)
			return
		}

		cfg, err := settings.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		html, err := renderer.RenderSalesReport(report, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render sales report"))
			return
		}
		writeHTML(w, html)
	}
}
