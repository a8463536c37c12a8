package http

import (
	"errors"
	"net/http"

	"contas/internal/billing"
	"contas/internal/core"
	"contas/internal/ledger"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State().Cards)
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var card core.Card
	if err := decodeJSON(r, &card); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	created, err := s.store.AddCard(r.Context(), card)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCard(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, billing.ErrCardNotFound) {
			writeError(w, http.StatusNotFound, "card not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State().Accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var acc core.Account
	if err := decodeJSON(r, &acc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	created, err := s.store.AddAccount(r.Context(), acc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type updateAccountRequest struct {
	Balance float64 `json:"balance"`
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := s.store.UpdateAccountBalance(r.Context(), r.PathValue("id"), req.Balance); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State().Categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var cat core.Category
	if err := decodeJSON(r, &cat); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	created, err := s.store.AddCategory(r.Context(), cat)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ledger.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
