package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kedoo/internal/models"
	"github.com/desertthunder/kedoo/internal/services"
	"github.com/desertthunder/kedoo/internal/shared"
)

// APIHandler serves the JSON API over [services.Services].
type APIHandler struct {
	svc    *services.Services
	logger *log.Logger
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(svc *services.Services, logger *log.Logger) *APIHandler {
	return &APIHandler{svc: svc, logger: shared.WithLogger(logger, "component", "api")}
}

// Register adds every API route to r.
func (h *APIHandler) Register(r Router) {
	routes := []struct {
		method, path string
		fn           http.HandlerFunc
	}{
		{http.MethodGet, "/api/session", h.session},
		{http.MethodPost, "/api/session", h.login},
		{http.MethodDelete, "/api/session", h.logout},

		{http.MethodGet, "/api/releases", h.listReleases},
		{http.MethodPost, "/api/releases", h.createRelease},
		{http.MethodGet, "/api/releases/stats", h.releaseStats},
		{http.MethodGet, "/api/releases/{id}", h.getRelease},
		{http.MethodPatch, "/api/releases/{id}", h.editRelease},
		{http.MethodDelete, "/api/releases/{id}", h.deleteRelease},
		{http.MethodPost, "/api/releases/{id}/submit", h.submitRelease},
		{http.MethodPost, "/api/releases/{id}/moderate", h.moderateRelease},

		{http.MethodGet, "/api/trash", h.listTrash},
		{http.MethodDelete, "/api/trash", h.emptyTrash},
		{http.MethodPost, "/api/trash/{id}/restore", h.restoreRelease},
		{http.MethodDelete, "/api/trash/{id}", h.purgeRelease},

		{http.MethodGet, "/api/tickets", h.listTickets},
		{http.MethodPost, "/api/tickets", h.openTicket},
		{http.MethodPatch, "/api/tickets/{id}", h.updateTicket},

		{http.MethodGet, "/api/wallet", h.wallet},
		{http.MethodPost, "/api/wallet/withdraw", h.withdraw},

		{http.MethodGet, "/api/themes", h.themes},
		{http.MethodGet, "/api/theme", h.theme},
		{http.MethodPut, "/api/theme", h.setTheme},
	}
	for _, route := range routes {
		r.Handle(route.method, route.path, route.fn)
	}
}

func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Accounts.Current(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Redacted())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *APIHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.svc.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Redacted())
}

func (h *APIHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Accounts.Logout(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listReleases(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.ReleaseFilter{Genre: q.Get("genre"), Query: q.Get("q")}
	if s := q.Get("status"); s != "" {
		status, err := models.ParseReleaseStatus(s)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		filter.Status = status
	}

	releases, err := h.svc.Releases.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

func (h *APIHandler) createRelease(w http.ResponseWriter, r *http.Request) {
	var release models.Release
	if err := decode(w, r, &release); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.svc.Releases.Create(r.Context(), &release)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *APIHandler) releaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Releases.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *APIHandler) getRelease(w http.ResponseWriter, r *http.Request) {
	release, err := h.svc.Releases.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (h *APIHandler) editRelease(w http.ResponseWriter, r *http.Request) {
	var patch models.ReleasePatch
	if err := decode(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	release, err := h.svc.Releases.Edit(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (h *APIHandler) deleteRelease(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Releases.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) submitRelease(w http.ResponseWriter, r *http.Request) {
	release, err := h.svc.Releases.Submit(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

type moderateRequest struct {
	Decision services.Decision `json:"decision"`
	Reason   string            `json:"reason"`
}

func (h *APIHandler) moderateRelease(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	release, err := h.svc.Releases.Moderate(r.Context(), r.PathValue("id"), req.Decision, req.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (h *APIHandler) listTrash(w http.ResponseWriter, r *http.Request) {
	releases, err := h.svc.Trash.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

func (h *APIHandler) emptyTrash(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Trash.Empty(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func (h *APIHandler) restoreRelease(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Trash.Restore(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) purgeRelease(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Trash.Purge(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.svc.Tickets.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickets)
}

type ticketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *APIHandler) openTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	ticket, err := h.svc.Tickets.Open(r.Context(), req.Subject, req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

type ticketUpdate struct {
	Status   *string `json:"status"`
	Response *string `json:"response"`
}

// updateTicket applies a moderator response and/or a status change, response first.
func (h *APIHandler) updateTicket(w http.ResponseWriter, r *http.Request) {
	var req ticketUpdate
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Status == nil && req.Response == nil {
		h.fail(w, r, shared.ErrMissingArgument)
		return
	}

	ctx, id := r.Context(), r.PathValue("id")
	var (
		ticket *models.Ticket
		err    error
	)
	if req.Response != nil {
		if ticket, err = h.svc.Tickets.Respond(ctx, id, *req.Response); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.Status != nil {
		status, err := models.ParseTicketStatus(*req.Status)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if status == models.TicketClosed {
			ticket, err = h.svc.Tickets.Close(ctx, id)
		} else {
			ticket, err = h.svc.Tickets.Reopen(ctx, id)
		}
		if err != nil {
			h.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (h *APIHandler) wallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.svc.Wallet.Balance(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

type withdrawRequest struct {
	Amount int64 `json:"amount"`
}

func (h *APIHandler) withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Wallet.Withdraw(r.Context(), req.Amount); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) themes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Settings.Themes())
}

func (h *APIHandler) theme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.svc.Settings.Theme(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *APIHandler) setTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	theme, err := h.svc.Settings.SetTheme(r.Context(), req.Theme)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}
