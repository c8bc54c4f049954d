package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/statement"
	"github.com/egabank/ega/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Options struct {
	AdminCode      string
	AllowedOrigins []string
	Currency       string
	BankName       string
	Location       *time.Location
	Logger         *zap.Logger
	// Now defaults to time.Now; it stamps generated documents.
	Now func() time.Time
}

type Server struct {
	svc        *service.Service
	statements *statement.Builder
	store      *store.Store
	tokens     *auth.Tokens
	opts       Options
	logger     *zap.Logger
}

func New(svc *service.Service, statements *statement.Builder, st *store.Store, tokens *auth.Tokens, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		svc:        svc,
		statements: statements,
		store:      st,
		tokens:     tokens,
		opts:       opts,
		logger:     opts.Logger,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{
			"clients":      s.store.Clients.Len(),
			"comptes":      s.store.Accounts.Len(),
			"transactions": s.store.Transactions.Len(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/auth/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/comptes/{numero}", func(r chi.Router) {
			r.Get("/", s.getAccount)
			r.Get("/transactions", s.listTransactions)
			r.Get("/releve", s.getStatement)
			r.Get("/releve/pdf", s.getStatementPDF)
			r.Post("/deposer", s.deposit)
			r.Post("/retirer", s.withdraw)
			r.Post("/transferer", s.transfer)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/ws/{collection}", s.stream)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("address", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server graceful shutdown failed", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP server gracefully shut down")
	return nil
}
