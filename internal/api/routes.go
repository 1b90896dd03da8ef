// Package api exposes the loan service over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	appmw "github.com/oatsaysai/lend-reminder/internal/middleware"
)

// NewRoutes builds the router. Every route except /health requires a
// Bearer token signed with jwtSecret.
func NewRoutes(svc *loans.Service, jwtSecret []byte) *chi.Mux {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(appmw.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Works Fine!"))
	})

	r.Group(func(r chi.Router) {
		r.Use(appmw.Authenticated(jwtSecret))

		r.Get("/templates", h.TemplatesHandler)

		r.Get("/loans", h.ListLoansHandler)
		r.Post("/loans", h.CreateLoanHandler)
		r.Get("/loans/{id}/reminder", h.ReminderDraftHandler)
		r.Post("/loans/{id}/reminders", h.RecordReminderHandler)
		r.Post("/loans/{id}/paid", h.MarkPaidHandler)
		r.Delete("/loans/{id}", h.DeleteLoanHandler)
	})

	return r
}
