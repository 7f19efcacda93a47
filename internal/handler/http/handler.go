package http

import (
	"net/http"

	"payout/internal/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	withdrawals port.WithdrawalService
	admin       port.AdminService
	reconciler  port.ReconcileService
	gateway     port.PaymentGateway
	validate    *validator.Validate
	authToken   string
	adminToken  string
	log         *logrus.Entry
}

func NewHandler(
	withdrawals port.WithdrawalService,
	admin port.AdminService,
	reconciler port.ReconcileService,
	gateway port.PaymentGateway,
	authToken, adminToken string,
) *Handler {
	return &Handler{
		withdrawals: withdrawals,
		admin:       admin,
		reconciler:  reconciler,
		gateway:     gateway,
		validate:    validator.New(),
		authToken:   authToken,
		adminToken:  adminToken,
		log:         logrus.WithField("component", "http"),
	}
}

func (h *Handler) InitRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.requireToken(h.authToken))
		r.Post("/withdrawals", h.createWithdrawal)
		r.Get("/withdrawals", h.listWithdrawals)
		r.Get("/withdrawals/{id}", h.getWithdrawal)
		r.Post("/earnings", h.creditEarnings)
		r.Get("/balance", h.getBalance)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireToken(h.adminToken))
		r.Get("/withdrawals", h.adminListWithdrawals)
		r.Post("/withdrawals/{id}/approve", h.approveWithdrawal)
		r.Post("/withdrawals/{id}/reject", h.rejectWithdrawal)
	})

	r.Post("/webhooks/paystream", h.handleWebhook)

	return r
}
