package billing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClient_AttachesBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok_abc", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]ClientInfo{{ID: "c1", Name: "Acme"}})
	}))
	defer server.Close()

	client := New(server.URL, WithTokenSource(staticToken("tok_abc")))

	clients, err := client.Clients(context.Background(), ClientQuery{SearchKey: "ac"})
	require.NoError(t, err)
	assert.Equal(t, []ClientInfo{{ID: "c1", Name: "Acme"}}, clients)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := New(server.URL, WithTokenSource(staticToken(""))).Get(context.Background(), "/api/x")
	require.NoError(t, err)
}

func TestClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"jwt expired"}`))
	}))
	defer server.Close()

	calls := 0
	client := New(server.URL, WithUnauthorizedHandler(func() { calls++ }))

	_, err := client.Get(context.Background(), "/api/stats")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "jwt expired", ErrorMessage(err, "fallback"))
}

func TestClient_StatusErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/plain" {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid date range"}`))
	}))
	defer server.Close()

	client := New(server.URL)

	_, err := client.Get(context.Background(), "/structured")
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid date range", ErrorMessage(err, "Failed"))

	_, err = client.Get(context.Background(), "/plain")
	assert.Equal(t, "Request failed with status code 502", ErrorMessage(err, "Failed"))
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := New(server.URL, WithTimeout(20*time.Millisecond))

	_, err := client.Get(context.Background(), "/slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "timeout of 20ms exceeded", ErrorMessage(err, "Failed"))
}

func TestErrorMessage_Fallback(t *testing.T) {
	assert.Equal(t, "Failed to fetch clients", ErrorMessage(nil, "Failed to fetch clients"))
	assert.Equal(t, "Failed", ErrorMessage(errors.New(""), "Failed"))
	assert.Equal(t, "boom", ErrorMessage(errors.New("boom"), "Failed"))
}

func TestClient_PostNormalizesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"b":null,"c":"2024-01-01T00:00:00.000Z"}`, string(body))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	resp, err := New(server.URL).Post(context.Background(), "/api/things", Params{
		"a": Undefined,
		"b": nil,
		"c": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/users/login", r.URL.Path)

		creds := LoginCredentials{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, LoginCredentials{Name: "alice123", Password: "secret1"}, creds)

		_, _ = w.Write([]byte(`{"accessToken":"tok_abc","user":{"name":"alice123"}}`))
	}))
	defer server.Close()

	auth, err := New(server.URL).Login(context.Background(), LoginCredentials{Name: "alice123", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, &AuthResponse{AccessToken: "tok_abc", User: User{Name: "alice123"}}, auth)
}

func TestClient_InvoicesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("perPage"))
		assert.Equal(t, "c1", q.Get("client"))
		assert.False(t, q.Has("startDate"))
		_, _ = w.Write([]byte(`{"data":[{"_id":"i1","building":"HQ"}],"total":21}`))
	}))
	defer server.Close()

	page, err := New(server.URL).Invoices(context.Background(), InvoiceQuery{Page: 2, PerPage: 10, Client: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 21, page.Total)
	assert.Equal(t, "i1", page.Data[0].ID)
}

func TestClient_DownloadInvoice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if r.URL.Path == "/api/invoices/download/named" {
			w.Header().Set("Content-Disposition", `attachment; filename="march.pdf"`)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer server.Close()

	client := New(server.URL, WithTokenSource(staticToken("tok")))

	dl, err := client.DownloadInvoice(context.Background(), "named")
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "march.pdf", dl.Filename)
	data, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	dl, err = client.DownloadInvoice(context.Background(), "i9")
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, "invoice-i9.pdf", dl.Filename)
}

func TestClient_PatchAndDeleteWithHeaderOverride(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "Bearer override", r.Header.Get("Authorization"))
		w.Header().Set("X-Request-Id", "req-1")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL, WithTokenSource(staticToken("tok_abc")))
	override := WithHeader("Authorization", "Bearer override")

	resp, err := client.Patch(context.Background(), "/api/x", Params{"a": 1}, override)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "req-1", resp.Header.Get("X-Request-Id"))

	_, err = client.Delete(context.Background(), "/api/x", override)
	require.NoError(t, err)

	assert.Equal(t, []string{http.MethodPatch, http.MethodDelete}, methods)
}
