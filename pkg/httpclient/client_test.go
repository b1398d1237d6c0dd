package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/middleware/requestid"
)

type fakeTokens struct {
	mu       sync.Mutex
	token    string
	err      error
	signOuts int
}

func (f *fakeTokens) Token(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.err
}

func (f *fakeTokens) SignOut(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOuts++
	f.token = ""
}

type recordingObserver struct {
	mu        sync.Mutex
	endpoints []string
	statuses  []int
}

func (o *recordingObserver) ObserveUpstream(_ string, endpoint string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.endpoints = append(o.endpoints, endpoint)
	o.statuses = append(o.statuses, status)
}

func TestGetAttachesTokenAndDecodes(t *testing.T) {
	var gotToken, gotReqID, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("x-auth-token")
		gotReqID = r.Header.Get(requestid.HeaderKey)
		gotQuery = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"total": 3})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := New(Config{BaseURL: srv.URL + "/"}, &fakeTokens{token: "tok"}, WithObserver(obs))
	var out struct {
		Total int `json:"total"`
	}
	ctx := requestid.WithValue(context.Background(), "req-1")
	err := c.Get(ctx, "/api/permits", url.Values{"page": {"2"}}, &out)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Total)
	assert.Equal(t, "tok", gotToken)
	assert.Equal(t, "req-1", gotReqID)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, []string{"/api/permits"}, obs.endpoints)
	assert.Equal(t, []int{http.StatusOK}, obs.statuses)
}

func TestCustomAuthHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, AuthHeader: "Authorization"}, &fakeTokens{token: "abc"})
	require.NoError(t, c.Get(context.Background(), "/api/auth/me", nil, nil))
	assert.Equal(t, "abc", got)
}

func TestUnauthorizedSignsOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"msg":"Token is not valid"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	c := New(Config{BaseURL: srv.URL}, tokens)
	err := c.Get(context.Background(), "/api/permits", nil, nil)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Equal(t, 1, tokens.signOuts)
	assert.Empty(t, tokens.token)
}

func TestNonAuthErrorPassesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"msg":"Permit number already exists"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "tok"}
	c := New(Config{BaseURL: srv.URL}, tokens)
	err := c.Put(context.Background(), "/api/permits/p1", map[string]string{"a": "b"}, nil)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Permit number already exists", appErr.Message)
	assert.Equal(t, 0, tokens.signOuts)
}

func TestTokenErrorSkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, &fakeTokens{err: appErrors.ErrUnauthorized})
	err := c.Get(context.Background(), "/api/permits", nil, nil)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
	assert.Zero(t, calls)
}

func TestDeleteSendsBody(t *testing.T) {
	var body map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"msg":"2 permits deleted"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, &fakeTokens{token: "tok"})
	var out struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, c.Delete(context.Background(), "/api/permits", map[string][]string{"permitIds": {"a", "b"}}, &out))
	assert.Equal(t, []string{"a", "b"}, body["permitIds"])
	assert.Equal(t, "2 permits deleted", out.Msg)
}

func TestMultipartCarriesFieldsAndFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Jane", r.FormValue("firstName"))
		files := r.MultipartForm.File["attachments"]
		require.Len(t, files, 1)
		assert.Equal(t, "scan.pdf", files[0].Filename)
		f, err := files[0].Open()
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF", string(data))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"_id":"p1"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, &fakeTokens{token: "tok"})
	var out struct {
		ID string `json:"_id"`
	}
	err := c.PostMultipart(context.Background(), "/api/permits",
		[][2]string{{"firstName", "Jane"}},
		[]FilePart{{Field: "attachments", Filename: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}},
		&out)
	require.NoError(t, err)
	assert.Equal(t, "p1", out.ID)
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: time.Second}, &fakeTokens{token: "tok"})
	err := c.Get(context.Background(), "/api/permits", nil, nil)
	require.ErrorIs(t, err, appErrors.ErrUnavailable)
}

func TestEndpointLabelCollapsesIDs(t *testing.T) {
	assert.Equal(t, "/api/permits/:id", endpointLabel("/api/permits/65f0a1"))
	assert.Equal(t, "/api/reports/overview", endpointLabel("/api/reports/overview"))
	assert.Equal(t, "/api/auth/me", endpointLabel("/api/auth/me"))
	assert.Equal(t, "/api/permits", endpointLabel("/api/permits"))
}
