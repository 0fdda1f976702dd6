package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/bank-ledger/internal/models"
	"github.com/riteshkumar/bank-ledger/internal/service"
	u "github.com/riteshkumar/bank-ledger/internal/utils"
)

type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

func NewTransactionHandler(transactionService service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts/{id}/deposit", h.Deposit).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/withdraw", h.Withdraw).Methods(http.MethodPost)
	router.HandleFunc("/accounts/{id}/tax", h.QuoteTax).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}/tax", h.PayTax).Methods(http.MethodPost)
	router.HandleFunc("/transfers", h.CreateTransfer).Methods(http.MethodPost)
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req models.DepositRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid deposit request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}
	req.AccountID = mux.Vars(r)["id"]

	resp, err := h.transactionService.Deposit(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "deposit")
		return
	}

	u.WriteJSON(w, http.StatusOK, resp)
}

// Withdraw reports the account's stored UPI id alongside the result of a UPI
// withdrawal, including when the withdrawal is rejected.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid withdraw request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}
	req.AccountID = mux.Vars(r)["id"]

	resp, err := h.transactionService.Withdraw(r.Context(), &req)
	if err != nil {
		if resp == nil {
			writeServiceError(w, h.logger, err, "withdraw")
			return
		}
		status, message := errorStatus(err)
		u.WriteJSON(w, status, models.ErrorResponse{
			Error:        message,
			Message:      err.Error(),
			DisclosedUPI: resp.DisclosedUPI,
		})
		return
	}

	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *TransactionHandler) QuoteTax(w http.ResponseWriter, r *http.Request) {
	resp, err := h.transactionService.QuoteTax(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "quote tax")
		return
	}

	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *TransactionHandler) PayTax(w http.ResponseWriter, r *http.Request) {
	resp, err := h.transactionService.PayTax(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "pay tax")
		return
	}

	u.WriteJSON(w, http.StatusOK, resp)
}

func (h *TransactionHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTransferRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid create transfer request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	transfer, err := h.transactionService.Transfer(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create transfer")
		return
	}

	u.WriteJSON(w, http.StatusCreated, transfer)
}
