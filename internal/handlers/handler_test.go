// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests needing PostgreSQL or Valkey are skipped
// when the backing service is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"devfolio/internal/database"
	"devfolio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// Skips the test when PostgreSQL is unreachable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "devfolio") + ":" +
		envOr("POSTGRES_PASSWORD", "changeme") + "@" +
		envOr("POSTGRES_HOST", "localhost") + ":" +
		envOr("POSTGRES_PORT", "5432") + "/" +
		envOr("POSTGRES_DB", "devfolio") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkey connects to the test Valkey on DB 15. Skips when unreachable.
func testValkey(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		DB:   15,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}

// testEnv bundles the stores and handler groups under test. Response
// caching and notifications are off so assertions hit the database.
type testEnv struct {
	db       *sql.DB
	public   *Public
	admin    *Admin
	projects *store.ProjectStore
	posts    *store.PostStore
	services *store.ServiceStore
	messages *store.MessageStore
	profile  *store.ProfileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testDB(t)

	profile := store.NewProfileStore(db)
	projects := store.NewProjectStore(db)
	posts := store.NewPostStore(db)
	services := store.NewServiceStore(db)
	messages := store.NewMessageStore(db)

	return &testEnv{
		db:       db,
		public:   NewPublic(profile, projects, posts, services, messages, nil, nil, nil),
		admin:    NewAdmin(profile, projects, posts, services, messages, nil),
		projects: projects,
		posts:    posts,
		services: services,
		messages: messages,
		profile:  profile,
	}
}

// jsonRequest builds a request with a JSON body and optional chi {id}.
func jsonRequest(t *testing.T, method, target, id string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	return req
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
