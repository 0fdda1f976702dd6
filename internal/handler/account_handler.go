package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/riteshkumar/bank-ledger/internal/crypto"
	"github.com/riteshkumar/bank-ledger/internal/ledger"
	"github.com/riteshkumar/bank-ledger/internal/models"
	"github.com/riteshkumar/bank-ledger/internal/service"
	u "github.com/riteshkumar/bank-ledger/internal/utils"
)

type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

func NewAccountHandler(accountService service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", h.CreateAccount).Methods(http.MethodPost)
	router.HandleFunc("/accounts", h.ListAccounts).Methods(http.MethodGet)
	router.HandleFunc("/accounts/{id}", h.GetAccount).Methods(http.MethodGet)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAccountRequest
	if err := u.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid create account request", "error", err.Error())
		u.WriteError(w, http.StatusBadRequest, "invalid request payload", err.Error())
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "create account")
		return
	}

	u.WriteJSON(w, http.StatusCreated, accountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]
	if accountID == "" {
		u.WriteError(w, http.StatusBadRequest, "id is required", "")
		return
	}

	account, err := h.accountService.GetAccount(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, h.logger, err, "get account")
		return
	}

	u.WriteJSON(w, http.StatusOK, accountResponse(account))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "list accounts")
		return
	}

	out := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, accountResponse(account))
	}
	u.WriteJSON(w, http.StatusOK, out)
}

// accountResponse is the display view of an account. The UPI id is masked and
// the card number is never shown.
func accountResponse(account *ledger.Account) models.AccountResponse {
	upi := crypto.NotSet
	if account.HasUPI() {
		upi = crypto.MaskUPI(account.UPI())
	}

	resp := models.AccountResponse{
		ID:            account.ID(),
		AccountNumber: account.Number(),
		Variant:       string(account.Variant()),
		OwnerName:     account.Owner(),
		ParentID:      account.ParentID(),
		Balance:       account.Balance(),
		MinBalance:    account.MinBalance(),
		InterestRate:  account.InterestRate(),
		UPI:           upi,
		Credential:    maskedCredential(account),
	}
	resp.Details = fmt.Sprintf("%s Account - ID: %s, Owner: %s, Balance: ₹%d, UPI: %s, Card: %s",
		resp.Variant, resp.ID, resp.OwnerName, resp.Balance, resp.UPI, resp.Credential)
	if resp.ParentID != "" {
		resp.Details = fmt.Sprintf("%s Account - ID: %s, Parent: %s, Owner: %s, Balance: ₹%d, UPI: %s, Card: %s",
			resp.Variant, resp.ID, resp.ParentID, resp.OwnerName, resp.Balance, resp.UPI, resp.Credential)
	}

	if taxable, ok := account.Taxable(); ok {
		resp.Taxable = true
		resp.TaxDetails = taxable.TaxDetails()
	}
	if transferable, ok := account.Transferable(); ok {
		resp.Transferable = true
		resp.TransferDetails = transferable.TransferDetails()
	}
	return resp
}

func maskedCredential(account *ledger.Account) string {
	if !account.HasCredential() {
		return crypto.NotSet
	}
	return crypto.Masked
}
