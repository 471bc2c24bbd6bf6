package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/honeynil/FinanceService/internal/handler"
	"github.com/honeynil/FinanceService/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type stubEntries struct{}

func (stubEntries) Create(context.Context, *models.Entry) (*models.Entry, error) { return nil, nil }
func (stubEntries) Update(context.Context, *models.Entry) (*models.Entry, error) { return nil, nil }
func (stubEntries) UpdateStatus(context.Context, *models.Entry, models.EntryStatus) (*models.Entry, error) {
	return nil, nil
}
func (stubEntries) Delete(context.Context, *models.Entry) error { return nil }
func (stubEntries) Search(context.Context, models.EntryFilter) ([]models.Entry, error) {
	return []models.Entry{}, nil
}
func (stubEntries) ObtainByID(context.Context, int64) (*models.Entry, bool, error) {
	return nil, false, nil
}
func (stubEntries) Validate(*models.Entry) error { return nil }

type stubUsers struct{}

func (stubUsers) Authenticate(context.Context, string, string) (*models.User, error) { return nil, nil }
func (stubUsers) SaveUser(_ context.Context, u *models.User) (*models.User, error) {
	return &models.User{ID: 1, Email: u.Email}, nil
}
func (stubUsers) ValidateEmail(context.Context, string) error { return nil }
func (stubUsers) ObtainByID(_ context.Context, id int64) (*models.User, bool, error) {
	return &models.User{ID: id}, true, nil
}

type stubTokens struct{}

func (stubTokens) Issue(context.Context, int64) (string, error) { return "token", nil }

func denyAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestSetupRouter(t *testing.T) {
	h := handler.NewHandler(stubEntries{}, stubUsers{}, stubTokens{})
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics"))
	})
	router := SetupRouter(h, denyAll, metrics)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"public registration", http.MethodPost, "/api/users", `{"email":"a@b.c","password":"pw"}`, http.StatusCreated},
		{"protected search", http.MethodGet, "/api/entries?user=1", "", http.StatusUnauthorized},
		{"protected delete", http.MethodDelete, "/api/entries/1", "", http.StatusUnauthorized},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body *http.Request
			if tt.body != "" {
				body = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			} else {
				body = httptest.NewRequest(tt.method, tt.path, nil)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	assert.Equal(t, float64(1), testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodPost, "/api/users", "201")))
	assert.Equal(t, float64(1), testutil.ToFloat64(RequestCounter.WithLabelValues(http.MethodDelete, "/api/entries/{id:[0-9]+}", "401")))
}
