package httpapi

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/davidmr/portfoliocms/internal/common"
	"github.com/davidmr/portfoliocms/internal/dbx"
	"github.com/davidmr/portfoliocms/internal/logging"
	"github.com/davidmr/portfoliocms/internal/server/auth"
	"github.com/davidmr/portfoliocms/internal/server/models"
	usersrepo "github.com/davidmr/portfoliocms/internal/server/repositories/users"
	"github.com/davidmr/portfoliocms/internal/server/users"
)

// fakeUsersRepo is a map-backed stand-in for the Postgres repository.
type fakeUsersRepo struct {
	users map[string]*models.User // by ID
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeUsersRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeRepoManager struct {
	repo *fakeUsersRepo
}

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.repo }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

// testEnv bundles everything the handler tests need.
type testEnv struct {
	handler *Handler
	router  http.Handler
	users   *users.Service
	tokens  *auth.Manager
	repo    *fakeUsersRepo
	mock    sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := newFakeUsersRepo()
	us := users.NewService(db, &fakeRepoManager{repo: repo})
	tokens := auth.NewManager("test-secret", time.Hour)
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	h := NewHandler(us, tokens, log)
	return &testEnv{
		handler: h,
		router:  NewRouter(h),
		users:   us,
		tokens:  tokens,
		repo:    repo,
		mock:    mock,
	}
}

// seedAccount registers an account directly through the service.
func (e *testEnv) seedAccount(t *testing.T, name, email, password string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return u
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
