package http

import (
	"net/http"

	"financetrack/internal/services"
)

type (
	transactionRequest struct {
		services.TransactionInput
		Category *CategoryRef `json:"category"`
	}

	transactionPatchRequest struct {
		services.TransactionPatch
		Category *CategoryRef `json:"category"`
	}
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	in := req.TransactionInput
	in.CategoryID = pickCategory(in.CategoryID, req.Category)
	in.Description = sanitizeInput(in.Description)

	t, err := s.deps.Transactions.Create(r.Context(), currentUser(r).ID, in)
	if err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(map[string]interface{}{
		"message":     "Transaction created successfully",
		"transaction": t,
	}).Write(w)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseTransactionFilter(r.URL.Query())
	if err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	txs, err := s.deps.Transactions.List(r.Context(), currentUser(r).ID, filter)
	if err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"transactions": orEmpty(txs)}).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.deps.Transactions.Get(r.Context(), currentUser(r).ID, pathID(r))
	if err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{"transaction": t}).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	p := req.TransactionPatch
	if p.CategoryID == nil && req.Category != nil {
		id := string(*req.Category)
		p.CategoryID = &id
	}
	sanitizePtr(p.Description)

	t, err := s.deps.Transactions.Update(r.Context(), currentUser(r).ID, pathID(r), p)
	if err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	NewJSONResponse().Body(map[string]interface{}{
		"message":     "Transaction updated successfully",
		"transaction": t,
	}).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.Delete(r.Context(), currentUser(r).ID, pathID(r)); err != nil {
		fail(w, r, err, transactionMessages)
		return
	}
	NewJSONResponse().Message("Transaction deleted successfully").Write(w)
}
