package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("skipping: valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

// sessionCookie extracts the session cookie a Create call set on the recorder.
func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(testClient(t), false)

	userID := uuid.New()
	rec := httptest.NewRecorder()
	id, err := store.Create(ctx, rec, &Data{
		UserID:      userID,
		Email:       "creator@marketpress.test",
		DisplayName: "Creator",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected a session ID")
	}

	cookie := sessionCookie(t, rec)
	if cookie.Value != id {
		t.Fatalf("cookie value = %q, want session ID %q", cookie.Value, id)
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}

	// Round-trip through a request carrying the cookie.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data == nil {
		t.Fatal("expected session data")
	}
	if data.UserID != userID {
		t.Fatalf("user ID = %v, want %v", data.UserID, userID)
	}
	if data.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be stamped")
	}

	// Destroy removes the session and clears the cookie.
	rec2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, rec2, req); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	cleared := sessionCookie(t, rec2)
	if cleared.MaxAge != -1 {
		t.Fatalf("cleared cookie MaxAge = %d, want -1", cleared.MaxAge)
	}

	data, err = store.Get(ctx, req)
	if err != nil {
		t.Fatalf("get after destroy: %v", err)
	}
	if data != nil {
		t.Fatal("expected no session after destroy")
	}
}

func TestGetWithoutCookie(t *testing.T) {
	store := NewStore(testClient(t), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data != nil {
		t.Fatal("expected nil session for request without cookie")
	}
}

func TestGetWithUnknownID(t *testing.T) {
	store := NewStore(testClient(t), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data != nil {
		t.Fatal("expected nil session for unknown ID")
	}
}

func TestSecureFlagPropagates(t *testing.T) {
	store := NewStore(testClient(t), true)

	rec := httptest.NewRecorder()
	if _, err := store.Create(context.Background(), rec, &Data{UserID: uuid.New()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !sessionCookie(t, rec).Secure {
		t.Fatal("expected Secure cookie when store is secure")
	}
}
