package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// transactionRequest is the JSON body for create and update. Amount accepts
// a decimal number or a quoted decimal string.
type transactionRequest struct {
	Amount      core.Money           `json:"amount"`
	Type        core.TransactionType `json:"type"`
	CategoryID  int64                `json:"categoryId"`
	Date        core.Date            `json:"date"`
	Description string               `json:"description"`
}

func (req transactionRequest) toInput() ledger.CreateInput {
	return ledger.CreateInput{
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
	}
}

// transactionResponse echoes a stored transaction.
type transactionResponse struct {
	ID          int64                `json:"id"`
	CategoryID  int64                `json:"categoryId"`
	Amount      core.Money           `json:"amount"`
	Type        core.TransactionType `json:"type"`
	Date        core.Date            `json:"date"`
	Description string               `json:"description,omitempty"`
}

func transactionResponseFromCore(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:          t.ID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Type:        t.Type,
		Date:        t.Date,
		Description: t.Description,
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	t, err := s.ledger.Create(r.Context(), s.userID, req.toInput())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionResponseFromCore(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.ledger.Update(r.Context(), s.userID, id, req.toInput()); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	resp := transactionResponseFromCore(core.Transaction{
		ID:          id,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDPath(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.ledger.Delete(r.Context(), s.userID, id); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
