package books_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billmunshi/internal/books"
	"billmunshi/internal/config"
	"billmunshi/internal/domain"
)

func newBooksClient(apiURL, tokenURL string) *books.Client {
	return books.NewClient(&config.BooksConfig{
		BaseURL:        apiURL,
		TokenURL:       tokenURL,
		OrganizationID: "60001234",
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		RefreshToken:   "refresh-token",
	})
}

func TestPostJournal_RefreshesOn401AndReplays(t *testing.T) {
	tokenCalls := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-token", r.Form.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token": "fresh-token"}`))
	}))
	defer tokenSrv.Close()

	apiCalls := 0
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		assert.Equal(t, "60001234", r.URL.Query().Get("organization_id"))
		auth := r.Header.Get("Authorization")
		if !strings.HasSuffix(auth, "fresh-token") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.True(t, strings.HasPrefix(auth, "Zoho-oauthtoken "))
		w.WriteHeader(http.StatusCreated)
	}))
	defer apiSrv.Close()

	client := newBooksClient(apiSrv.URL, tokenSrv.URL)
	err := client.PostJournal(context.Background(), []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls)
	assert.Equal(t, 2, apiCalls, "401 then replay")
}

func TestPostJournal_SucceedsWithCachedToken(t *testing.T) {
	apiCalls := 0
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if apiCalls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer apiSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token": "cached"}`))
	}))
	defer tokenSrv.Close()

	client := newBooksClient(apiSrv.URL, tokenSrv.URL)
	require.NoError(t, client.PostJournal(context.Background(), []byte(`{}`)))

	// second call rides the cached token, no further 401
	require.NoError(t, client.PostJournal(context.Background(), []byte(`{}`)))
	assert.Equal(t, 3, apiCalls)
}

func TestPostJournal_NonSuccessIsTransportError(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer apiSrv.Close()

	client := newBooksClient(apiSrv.URL, "http://invalid.invalid/token")
	err := client.PostJournal(context.Background(), []byte(`{}`))
	require.Error(t, err)

	var transport *domain.SyncTransportError
	require.True(t, errors.As(err, &transport))
	assert.Equal(t, http.StatusBadRequest, transport.StatusCode)
}

func TestPostJournal_RefreshFailureIsTransportError(t *testing.T) {
	apiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer apiSrv.Close()

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer tokenSrv.Close()

	client := newBooksClient(apiSrv.URL, tokenSrv.URL)
	err := client.PostJournal(context.Background(), []byte(`{}`))
	require.Error(t, err)

	var transport *domain.SyncTransportError
	assert.True(t, errors.As(err, &transport))
}

func TestPostJournal_ConnectionRefusedIsTransportError(t *testing.T) {
	client := newBooksClient("http://127.0.0.1:1", "http://127.0.0.1:1")
	err := client.PostJournal(context.Background(), []byte(`{}`))
	require.Error(t, err)

	var transport *domain.SyncTransportError
	assert.True(t, errors.As(err, &transport))
}
