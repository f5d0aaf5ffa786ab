package client

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pradhanfinservdev/pradhanportal-client/internal/session"
	apperrors "github.com/pradhanfinservdev/pradhanportal-client/pkg/errors"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"), zap.NewNop())
}

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestGet_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	sess := newTestStore(t)
	token := mintToken(t, time.Now().Add(time.Hour))
	sess.Set(token, session.Profile{Name: "Admin", Role: "admin"})

	c := New(srv.URL, time.Second, sess, zap.NewNop())
	var out map[string]bool
	require.NoError(t, c.Get(context.Background(), "/leads", nil, &out))
	assert.Equal(t, "Bearer "+token, gotAuth)
	assert.True(t, out["ok"])
}

func TestGet_ExpiredTokenClearedBeforeFlight(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sess := newTestStore(t)
	sess.Set(mintToken(t, time.Now().Add(-time.Minute)), session.Profile{Name: "Admin"})

	c := New(srv.URL, time.Second, sess, zap.NewNop())
	require.NoError(t, c.Get(context.Background(), "/leads", nil, nil))
	assert.Empty(t, gotAuth, "a locally-expired token must never be sent")

	_, err := sess.Token()
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound, "token and profile are gone together")
	_, signedIn := sess.User()
	assert.False(t, signedIn)
}

func TestGet_UnauthorizedClearsSessionAndNotifies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := newTestStore(t)
	sess.Set(mintToken(t, time.Now().Add(time.Hour)), session.Profile{Name: "Admin"})

	c := New(srv.URL, time.Second, sess, zap.NewNop())
	notified := false
	c.SetUnauthorizedHandler(func() { notified = true })

	err := c.Get(context.Background(), "/cases", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

	assert.True(t, notified)
	_, signedIn := sess.User()
	assert.False(t, signedIn)
}

func TestPost_SurfacesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"PAN number is already registered"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestStore(t), zap.NewNop())
	err := c.Post(context.Background(), "/partners", map[string]string{"name": "x"}, nil)
	require.Error(t, err)
	assert.Equal(t, "PAN number is already registered", apperrors.DisplayMessage(err))
}

func TestPost_FallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway sad</html>`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestStore(t), zap.NewNop())
	err := c.Post(context.Background(), "/partners", map[string]string{"name": "x"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Request failed", apperrors.DisplayMessage(err))
}

func TestGet_TimeoutMapsToErrTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(srv.URL, 50*time.Millisecond, newTestStore(t), zap.NewNop())
	err := c.Get(context.Background(), "/slow", nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrTimeout)
}

func TestPost_SetsJSONContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestStore(t), zap.NewNop())
	require.NoError(t, c.Post(context.Background(), "/leads", map[string]string{"name": "x"}, nil))
	assert.Equal(t, "application/json", gotContentType)
}

func TestPutMultipart_KeepsWriterBoundary(t *testing.T) {
	var parsedName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		parsedName = r.FormValue("customerName")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("customerName", "Ramesh"))
	require.NoError(t, mw.Close())

	c := New(srv.URL, time.Second, newTestStore(t), zap.NewNop())
	err := c.PutMultipart(context.Background(), "/cases/c1", mw.FormDataContentType(), &body, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ramesh", parsedName, "the multipart boundary must survive the pipeline")
}

func TestGet_EncodesQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestStore(t), zap.NewNop())
	q := url.Values{}
	q.Set("page", "2")
	q.Set("q", "kulkarni")
	require.NoError(t, c.Get(context.Background(), "/customers", q, nil))
	assert.Equal(t, "2", gotQuery.Get("page"))
	assert.Equal(t, "kulkarni", gotQuery.Get("q"))
}

func TestDownload_ReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 70_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/zip")
		w.Write(payload)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, newTestStore(t), zap.NewNop())
	var sink bytes.Buffer
	var lastWritten, lastTotal int64
	err := c.Download(context.Background(), "/cases/c1/documents/archive", &sink, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), lastWritten)
	assert.Equal(t, int64(len(payload)), lastTotal)
	assert.Equal(t, payload, sink.Bytes())
}
