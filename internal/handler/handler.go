package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/honeynil/FinanceService/internal/models"
	service "github.com/honeynil/FinanceService/internal/services"
	pkgerrors "github.com/honeynil/FinanceService/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	errEntryNotFound = errors.New("entry not found")
	errOwnerNotFound = errors.New("user not found for the given id")
	errInvalidID     = errors.New("invalid id")
)

// TokenIssuer issues a session token after a successful authentication.
type TokenIssuer interface {
	Issue(ctx context.Context, userID int64) (string, error)
}

type Handler struct {
	entries service.EntryService
	users   service.UserService
	tokens  TokenIssuer
}

func NewHandler(entries service.EntryService, users service.UserService, tokens TokenIssuer) *Handler {
	return &Handler{entries: entries, users: users, tokens: tokens}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fail maps service errors: business errors go out verbatim, everything else
// is logged and reported generically.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case pkgerrors.IsBusiness(err):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, pkgerrors.ErrEntryNotFound):
		h.writeError(w, http.StatusBadRequest, errEntryNotFound)
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		h.writeError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/api/users", h.SaveUser).Methods("POST")
	r.HandleFunc("/api/users/authenticate", h.Authenticate).Methods("POST")
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/api/entries", h.CreateEntry).Methods("POST")
	r.HandleFunc("/api/entries", h.SearchEntries).Methods("GET")
	r.HandleFunc("/api/entries/{id:[0-9]+}", h.GetEntry).Methods("GET")
	r.HandleFunc("/api/entries/{id:[0-9]+}", h.UpdateEntry).Methods("PUT")
	r.HandleFunc("/api/entries/{id:[0-9]+}/status", h.UpdateEntryStatus).Methods("PUT")
	r.HandleFunc("/api/entries/{id:[0-9]+}", h.DeleteEntry).Methods("DELETE")
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := h.users.SaveUser(r.Context(), &models.User{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.tokens.Issue(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

type entryRequest struct {
	Description string          `json:"description"`
	Month       int             `json:"month"`
	Year        int             `json:"year"`
	Value       decimal.Decimal `json:"value"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	UserID      int64           `json:"user_id"`
}

// toEntry resolves the owner and parses the enums. A missing owner id is
// left for the validator to report.
func (h *Handler) toEntry(ctx context.Context, req entryRequest) (*models.Entry, error) {
	entry := &models.Entry{
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
		Value:       req.Value,
		UserID:      req.UserID,
	}

	if req.UserID != 0 {
		_, found, err := h.users.ObtainByID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, errOwnerNotFound
		}
	}

	if req.Type != "" {
		entry.Type = models.EntryType(req.Type)
		if !entry.Type.Valid() {
			return nil, pkgerrors.ErrInvalidEntryType
		}
	}
	if req.Status != "" {
		entry.Status = models.EntryStatus(req.Status)
		if !entry.Status.Valid() {
			return nil, pkgerrors.ErrInvalidStatus
		}
	}
	return entry, nil
}

func (h *Handler) decodeEntry(w http.ResponseWriter, r *http.Request) (*models.Entry, bool) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	entry, err := h.toEntry(r.Context(), req)
	if err != nil {
		if isClientError(err) {
			h.writeError(w, http.StatusBadRequest, err)
		} else {
			h.fail(w, r, err)
		}
		return nil, false
	}
	return entry, true
}

func isClientError(err error) bool {
	return errors.Is(err, errOwnerNotFound) ||
		errors.Is(err, pkgerrors.ErrInvalidEntryType) ||
		errors.Is(err, pkgerrors.ErrInvalidStatus)
}

// lookup resolves {id} to a stored entry, answering the request itself when
// it cannot.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*models.Entry, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errInvalidID)
		return nil, false
	}

	entry, found, err := h.entries.ObtainByID(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if !found {
		h.writeError(w, http.StatusBadRequest, errEntryNotFound)
		return nil, false
	}
	return entry, true
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}

	stored, err := h.entries.Create(r.Context(), entry)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.lookup(w, r)
	if !ok {
		return
	}
	entry, ok := h.decodeEntry(w, r)
	if !ok {
		return
	}
	entry.ID = existing.ID
	entry.RegistrationDate = existing.RegistrationDate
	if entry.Status == "" {
		entry.Status = existing.Status
	}

	stored, err := h.entries.Update(r.Context(), entry)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) UpdateEntryStatus(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	status := models.EntryStatus(req.Status)
	if !status.Valid() {
		h.writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidStatus)
		return
	}

	stored, err := h.entries.UpdateStatus(r.Context(), existing, status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if err := h.entries.Delete(r.Context(), existing); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SearchEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID, err := strconv.ParseInt(q.Get("user"), 10, 64)
	if err != nil || userID == 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("user is required"))
		return
	}
	filter := models.EntryFilter{UserID: userID}

	if v := q.Get("description"); v != "" {
		filter.Description = &v
	}
	for _, p := range []struct {
		name string
		dst  **int
	}{{"month", &filter.Month}, {"year", &filter.Year}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, errors.New("invalid "+p.name))
			return
		}
		*p.dst = &n
	}
	if v := q.Get("type"); v != "" {
		t := models.EntryType(v)
		if !t.Valid() {
			h.writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidEntryType)
			return
		}
		filter.Type = &t
	}
	if v := q.Get("status"); v != "" {
		s := models.EntryStatus(v)
		if !s.Valid() {
			h.writeError(w, http.StatusBadRequest, pkgerrors.ErrInvalidStatus)
			return
		}
		filter.Status = &s
	}

	_, found, err := h.users.ObtainByID(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		h.writeError(w, http.StatusBadRequest, errOwnerNotFound)
		return
	}

	entries, err := h.entries.Search(r.Context(), filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}
