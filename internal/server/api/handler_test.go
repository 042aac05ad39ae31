package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/api"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/logger"
	shared "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{serr.ErrBadJSON, http.StatusBadRequest},
		{fmt.Errorf("%w: name: notblank", serr.ErrInvalidInput), http.StatusBadRequest},
		{serr.ErrAlreadyExists, http.StatusBadRequest},
		{serr.ErrMissingImages, http.StatusBadRequest},
		{serr.ErrInvalidCredentials, http.StatusUnauthorized},
		{crypto.ErrTokenExpired, http.StatusUnauthorized},
		{serr.ErrForbidden, http.StatusForbidden},
		{serr.ErrNotFound, http.StatusNotFound},
		{serr.ErrListingNotFound, http.StatusNotFound},
		{serr.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{serr.ErrStorage, http.StatusInternalServerError},
		{serr.ErrInternal, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			require.Equal(t, tc.want, api.StatusFor(tc.err))
		})
	}
}

type fixture struct {
	h       *api.Handler
	users   *mocks.MockUsersRepo
	animals *mocks.MockAnimalsRepo
	sink    *mocks.MockImageSink
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	core, logs := observer.New(zap.DebugLevel)
	log := &logger.HTTPLogger{Logger: zap.New(core)}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Issuer: "test", Audience: "test", AccessTTL: time.Minute,
			JWT: config.JWTConfig{Algorithm: "HS256", SigningKey: "supersecretkeysupersecretkey123456"},
		},
		Password: config.PasswordConfig{
			Hasher: "argon2id",
			Argon2: config.Argon2Config{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16},
		},
	}

	f := &fixture{
		users:   mocks.NewMockUsersRepo(ctrl),
		animals: mocks.NewMockAnimalsRepo(ctrl),
		sink:    mocks.NewMockImageSink(ctrl),
		logs:    logs,
	}
	svc := service.NewServices(service.Repositories{Users: f.users, Animals: f.animals}, f.sink, cfg, log)
	f.h = api.NewHandler(svc, log, middleware.NewJWTVerifier(svc.Auth, log), 0)
	return f
}

// withUser имитирует прошедший AuthMiddleware запрос.
func withUser(r *http.Request, id uuid.UUID) *http.Request {
	claims := &crypto.Claims{UserID: id.String()}
	claims.Subject = id.String()
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestRegister_Created(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(id, nil)

	body, _ := json.Marshal(shared.RegisterRequest{Name: "Ivan", Email: "ivan@farm.ru", Password: "p", Phone: "1", Location: "Tver"})
	rr := httptest.NewRecorder()
	f.h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, api.JsonContentType, rr.Header().Get(api.ContentType))

	var resp shared.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "User registered successfully", resp.Message)
	require.Equal(t, id.String(), resp.UserID)
}

// Детали внутренней ошибки не уходят клиенту, только в лог
func TestRegister_InternalErrorHidden(t *testing.T) {
	f := newFixture(t)
	f.users.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(uuid.Nil, fmt.Errorf("%w: create user: connection refused to 10.0.0.5", serr.ErrInternal))

	body, _ := json.Marshal(shared.RegisterRequest{Name: "Ivan", Email: "ivan@farm.ru", Password: "p"})
	rr := httptest.NewRecorder()
	f.h.Register(rr, httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "internal error", decodeError(t, rr))
	require.NotContains(t, rr.Body.String(), "10.0.0.5")

	entries := f.logs.FilterMessage("register failed").All()
	require.Len(t, entries, 1)
	require.Contains(t, entries[0].ContextMap()["error"], "10.0.0.5")
}

func TestLogin_BadJSON(t *testing.T) {
	f := newFixture(t)

	rr := httptest.NewRecorder()
	f.h.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("[")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "bad json", decodeError(t, rr))
}

func TestLogout_NoClaims(t *testing.T) {
	f := newFixture(t)

	rr := httptest.NewRecorder()
	f.h.Logout(rr, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListAnimals_Projection(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	a := models.Animal{
		ID:       uuid.New(),
		FarmerID: owner,
		AnimalFields: models.AnimalFields{
			Type: "goat", Breed: "Saanen", Age: 2, Price: 300.5, Description: "milk goat",
		},
		Status: models.StatusAvailable,
	}
	f.animals.EXPECT().ListByOwner(gomock.Any(), owner).Return([]models.Animal{a}, nil)

	rr := httptest.NewRecorder()
	f.h.ListAnimals(rr, withUser(httptest.NewRequest(http.MethodGet, "/api/animals", nil), owner))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, fmt.Sprintf(`[{
		"id": %q, "type": "goat", "breed": "Saanen", "age": 2, "price": 300.5,
		"description": "milk goat", "images": [], "status": "available"
	}]`, a.ID), rr.Body.String())
	require.NotContains(t, rr.Body.String(), owner.String())
}

func TestDeleteAnimal_StatusMapping(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()

	cases := []struct {
		name   string
		setup  func(f *fixture)
		status int
		msg    string
	}{
		{
			name: "not found",
			setup: func(f *fixture) {
				f.animals.EXPECT().GetByID(gomock.Any(), id).Return(models.Animal{}, serr.ErrListingNotFound)
			},
			status: http.StatusNotFound,
			msg:    "animal not found",
		},
		{
			name: "forbidden",
			setup: func(f *fixture) {
				f.animals.EXPECT().GetByID(gomock.Any(), id).Return(models.Animal{ID: id, FarmerID: uuid.New()}, nil)
			},
			status: http.StatusForbidden,
			msg:    "forbidden",
		},
		{
			name: "db down",
			setup: func(f *fixture) {
				f.animals.EXPECT().GetByID(gomock.Any(), id).Return(models.Animal{}, serr.ErrInternal)
			},
			status: http.StatusInternalServerError,
			msg:    "internal error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f)

			req := withID(withUser(httptest.NewRequest(http.MethodDelete, "/api/animals/"+id.String(), nil), owner), id.String())
			rr := httptest.NewRecorder()
			f.h.DeleteAnimal(rr, req)

			require.Equal(t, tc.status, rr.Code)
			require.Equal(t, tc.msg, decodeError(t, rr))
		})
	}
}

func TestHealth_Unavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mocks.NewMockHealthRepo(ctrl)
	db.EXPECT().Ping(gomock.Any()).Return(serr.ErrInternal)

	h := api.NewHandler(&service.Services{Health: service.NewHealthService(db)}, nil, nil, 0)

	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}
