package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "onboard_session", time.Hour, false)
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	sess.Set("client_wizard", `{"step":3}`)
	sess.SetUser("user-1")

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "onboard_session", cookies[0].Name)
	require.Equal(t, sess.ID, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)

	// A follow-up request carrying the cookie sees the same state.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(cookies[0])
	loaded, err := sm.Load(ctx, req2)
	require.NoError(t, err)
	require.Equal(t, sess.ID, loaded.ID)
	require.Equal(t, `{"step":3}`, loaded.Get("client_wizard"))
	require.Equal(t, "user-1", loaded.User())
}

func TestSessionUnknownCookieGetsFreshState(t *testing.T) {
	sm := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "onboard_session", Value: "expired-id"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "expired-id", sess.ID, "cookie id is kept")
	require.Empty(t, sess.Get("client_wizard"))
}

func TestSessionDestroy(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.Set("client_wizard", "state")
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, -1, cookies[0].MaxAge)

	// State is gone server-side too.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "onboard_session", Value: sess.ID})
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.Empty(t, loaded.Get("client_wizard"))
}

func TestSessionLockSerializes(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	release, err := sm.LockSession(ctx, "sess-1")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r2, err := sm.LockSession(ctx, "sess-1")
		if err == nil {
			close(acquired)
			r2()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("lock acquired while held")
	case <-time.After(100 * time.Millisecond):
	}

	// A different session is never queued behind this one.
	other, err := sm.LockSession(ctx, "sess-2")
	require.NoError(t, err)
	other()

	release()
	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("lock not released")
	}
}

func TestSessionLockHonorsContext(t *testing.T) {
	sm := newTestManager(t)
	release, err := sm.LockSession(context.Background(), "sess-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = sm.LockSession(ctx, "sess-1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCSRFTokenLifecycle(t *testing.T) {
	m := NewCSRFManager("test-secret")
	sm := newTestManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	again, err := m.EnsureToken(sess)
	require.NoError(t, err)
	require.Equal(t, token, again, "token is stable for the session")

	require.NoError(t, m.VerifyToken(sess, token))
	require.ErrorIs(t, m.VerifyToken(sess, "forged"), ErrCSRFTokenMismatch)
	require.ErrorIs(t, m.VerifyToken(sess, ""), ErrCSRFTokenMissing)
}
