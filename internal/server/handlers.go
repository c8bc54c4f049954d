package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/egabank/ega/internal/auth"
	"github.com/egabank/ega/internal/model"
	"github.com/egabank/ega/internal/service"
	"github.com/egabank/ega/internal/statement"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		session auth.Session
		err     error
	)
	switch {
	case req.Code != "":
		session, err = auth.LoginAdmin(req.Code, s.opts.AdminCode)
	case req.AccountNumber != "":
		session, err = auth.LoginClient(s.store, req.AccountNumber)
	default:
		err = auth.ErrBadCredentials
	}
	if err != nil {
		s.logger.Warn("login refused", zap.String("account", req.AccountNumber))
		s.fail(w, r, err)
		return
	}

	token, exp, err := s.tokens.Issue(session)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: exp, Session: session})
}

// account resolves {numero} and checks the caller may read it.
func (s *Server) account(r *http.Request) (model.Account, auth.Session, error) {
	session, _ := sessionFrom(r.Context())
	number := chi.URLParam(r, "numero")
	if err := session.CanAccessAccount(number); err != nil {
		return model.Account{}, session, err
	}
	acc, err := s.svc.Account.ByNumber(number)
	return acc, session, err
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acc, _, err := s.account(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountView(acc))
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	acc, _, err := s.account(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
	}

	txs, err := s.svc.Ledger.History(acc.Number, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionViews(txs))
}

func (s *Server) buildStatement(r *http.Request) (statement.Statement, error) {
	acc, _, err := s.account(r)
	if err != nil {
		return statement.Statement{}, err
	}
	q := r.URL.Query()
	window, err := statement.ParseRange(q.Get("dateDebut"), q.Get("dateFin"), s.opts.Location)
	if err != nil {
		return statement.Statement{}, err
	}
	return s.statements.Build(acc.Number, window)
}

func (s *Server) getStatement(w http.ResponseWriter, r *http.Request) {
	st, err := s.buildStatement(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementView(st))
}

func (s *Server) getStatementPDF(w http.ResponseWriter, r *http.Request) {
	st, err := s.buildStatement(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	err = statement.RenderPDF(&buf, st, statement.PDFOptions{
		BankName:    s.opts.BankName,
		Currency:    s.opts.Currency,
		Location:    s.opts.Location,
		GeneratedAt: s.opts.Now(),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	name := fmt.Sprintf("releve_%s_%s.pdf", st.AccountNumber, st.Period.FirstDay().Format("20060102"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	acc, _, err := s.account(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := s.svc.Ledger.Deposit(acc.Number, int64(req.Amount), req.Origin, req.Description)
	s.respondReceipt(w, r, receipt, err)
}

func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	number := chi.URLParam(r, "numero")
	if err := session.CanTransferFrom(number); err != nil {
		s.fail(w, r, err)
		return
	}
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := s.svc.Ledger.Withdraw(number, int64(req.Amount), req.Description)
	s.respondReceipt(w, r, receipt, err)
}

func (s *Server) transfer(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFrom(r.Context())
	number := chi.URLParam(r, "numero")
	if err := session.CanTransferFrom(number); err != nil {
		s.fail(w, r, err)
		return
	}
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := s.svc.Ledger.Transfer(number, req.Destination, int64(req.Amount), req.Description)
	s.respondReceipt(w, r, receipt, err)
}

// respondReceipt reports a ledger result. A partial transfer still carries
// its receipt so the caller can see the compensating deposit.
func (s *Server) respondReceipt(w http.ResponseWriter, r *http.Request, receipt service.Receipt, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, toReceiptView(receipt))
	case errors.Is(err, model.ErrPartialTransfer):
		s.logger.Error("partial transfer", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(APIResponse{
			Status:  "error",
			Message: err.Error(),
			Data:    toReceiptView(receipt),
		})
	default:
		s.fail(w, r, err)
	}
}
