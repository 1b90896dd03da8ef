package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oatsaysai/lend-reminder/internal/httputil"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	appmw "github.com/oatsaysai/lend-reminder/internal/middleware"
	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// dateLayout is the wire format of date_loaned
const dateLayout = "2006-01-02"

// Handler serves the loan routes
type Handler struct {
	svc *loans.Service
}

type CreateLoanRequest struct {
	FriendName  string          `json:"friend_name"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	DateLoaned  string          `json:"date_loaned"`
	Reason      *string         `json:"reason"`
	PhoneNumber *string         `json:"phone_number"`
	Email       *string         `json:"email"`
}

type ListLoansResponse struct {
	Loans   []loans.LoanView `json:"loans"`
	Summary loans.Summary    `json:"summary"`
}

type DraftResponse struct {
	loans.Draft
	Channel reminder.Channel `json:"channel,omitempty"`
	Link    string           `json:"link,omitempty"`
}

func ownerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := appmw.OwnerID(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
	}
	return owner, ok
}

// writeServiceError maps service error kinds to status codes
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *loans.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteFieldError(w, http.StatusBadRequest, verr.Field, verr.Error())
	case errors.Is(err, loans.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, "loan not found")
	case errors.Is(err, loans.ErrReminderNotDue):
		httputil.WriteError(w, http.StatusConflict, "reminder not due")
	case errors.Is(err, loans.ErrStoreUnavailable):
		logger.Log.Error("loan store unavailable", zap.Error(err))
		httputil.WriteError(w, http.StatusServiceUnavailable, "loan store unavailable")
	default:
		logger.Log.Error("unexpected service error", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) ListLoansHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	list, err := h.svc.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListLoansResponse{
		Loans:   h.svc.Views(list),
		Summary: loans.Summarize(list),
	})
}

func (h *Handler) CreateLoanHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data := models.CreateLoanData{
		FriendName:  req.FriendName,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Reason:      req.Reason,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	}
	if strings.TrimSpace(req.DateLoaned) != "" {
		d, err := time.Parse(dateLayout, strings.TrimSpace(req.DateLoaned))
		if err != nil {
			httputil.WriteFieldError(w, http.StatusBadRequest, "date_loaned", "date_loaned must be YYYY-MM-DD")
			return
		}
		data.DateLoaned = d
	}

	loan, err := h.svc.Create(r.Context(), owner, data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, loan)
}

func (h *Handler) ReminderDraftHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	templateID := r.URL.Query().Get("template")
	if templateID != "" {
		if _, found := reminder.FindTemplate(templateID); !found {
			httputil.WriteFieldError(w, http.StatusBadRequest, "template", "unknown template")
			return
		}
	}
	var channel reminder.Channel
	if raw := r.URL.Query().Get("channel"); raw != "" {
		c, err := reminder.ParseChannel(raw)
		if err != nil {
			httputil.WriteFieldError(w, http.StatusBadRequest, "channel", err.Error())
			return
		}
		channel = c
	}

	draft, err := h.svc.Draft(r.Context(), owner, chi.URLParam(r, "id"), templateID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := DraftResponse{Draft: draft}
	if channel != "" {
		resp.Channel = channel
		resp.Link = draft.Links[channel]
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RecordReminderHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	loan, err := h.svc.RecordReminderSent(r.Context(), owner, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.svc.View(loan))
}

func (h *Handler) MarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	if err := h.svc.MarkPaid(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TemplatesHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, reminder.Templates())
}
