package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-Imad/burial-records-management-FE/internal/models"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/httpclient"
)

type staticTokens struct{}

func (staticTokens) Token(context.Context) (string, error) { return "tok", nil }
func (staticTokens) SignOut(context.Context)               {}

func newBackend(t *testing.T, handler http.HandlerFunc) *httpclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return httpclient.New(httpclient.Config{BaseURL: srv.URL}, staticTokens{})
}

func TestPermitRepositoryList(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/permits", r.URL.Path)
		assert.Equal(t, "Block A", r.URL.Query().Get("burialLocation"))
		_, _ = w.Write([]byte(`{"permits":[{"_id":"1","permitNumber":"BP-2024-00001","firstName":"Jane","lastName":"Doe","status":"Verified"}],"currentPage":1,"totalPages":3,"total":21}`))
	})
	repo := NewPermitRepository(client)

	page, err := repo.List(context.Background(), url.Values{"burialLocation": {"Block A"}})
	require.NoError(t, err)
	require.Len(t, page.Permits, 1)
	assert.Equal(t, "Jane Doe", page.Permits[0].FullName())
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 3, Total: 21}, page.Pagination())
}

func TestPermitRepositoryListEmptyBody(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	page, err := NewPermitRepository(client).List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Permits)
	assert.Equal(t, models.Pagination{CurrentPage: 1, TotalPages: 1}, page.Pagination())
}

func TestPermitRepositoryCreateMultipart(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "BP-2024-00007", r.FormValue("permitNumber"))
		assert.Equal(t, "Burial", r.FormValue("primaryService"))
		assert.Len(t, r.MultipartForm.File["attachments"], 1)
		_, _ = w.Write([]byte(`{"_id":"p7","permitNumber":"BP-2024-00007"}`))
	})
	form := models.NewPermitForm()
	form.PermitNumber = "BP-2024-00007"
	created, err := NewPermitRepository(client).Create(context.Background(), form, []httpclient.FilePart{{Field: "attachments", Filename: "a.pdf", Data: []byte("x")}})
	require.NoError(t, err)
	assert.Equal(t, "p7", created.ID)
}

func TestPermitRepositoryUpdateSendsJSON(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/permits/p1", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Verified", body["status"])
		_, _ = w.Write([]byte(`{"_id":"p1","status":"Verified"}`))
	})
	form := models.NewPermitForm()
	form.Status = models.StatusVerified
	updated, err := NewPermitRepository(client).Update(context.Background(), "p1", form)
	require.NoError(t, err)
	assert.Equal(t, models.StatusVerified, updated.Status)
}

func TestPermitRepositoryBulkDelete(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"permitIds":["a","b"]}`, string(raw))
		_, _ = w.Write([]byte(`{"msg":"2 records deleted"}`))
	})
	msg, err := NewPermitRepository(client).BulkDelete(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "2 records deleted", msg)
}

func TestReportRepository(t *testing.T) {
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reports/overview":
			_, _ = w.Write([]byte(`{"totalRecords":10,"verifiedRecords":4,"genderStats":[{"_id":"Male","count":6}],"growth":{"total":5}}`))
		case "/api/reports/recent-permits":
			_, _ = w.Write([]byte(`[{"_id":"1","permitNumber":"BP-2024-00001","fullName":"Jane Doe"}]`))
		case "/api/reports/monthly-trends":
			_, _ = w.Write([]byte(`[{"_id":{"month":1,"burialLocation":"Main"},"count":3}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	repo := NewReportRepository(client)
	ctx := context.Background()

	overview, err := repo.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, overview.GenderCount("Male"))
	require.NotNil(t, overview.Growth)
	require.NotNil(t, overview.Growth.Total)
	assert.Nil(t, overview.Growth.Male)

	recent, err := repo.RecentPermits(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", recent[0].FullName)

	trends, err := repo.MonthlyTrends(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Main", trends[0].ID.BurialLocation)
}

func TestUserRepositoryProfileRoutes(t *testing.T) {
	var seen []string
	client := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch {
		case r.URL.Path == "/api/auth/me":
			_, _ = w.Write([]byte(`{"_id":"u1","username":"clerk"}`))
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"username":"clerk","email":"c@example.com"}`))
		case r.Method == http.MethodPut:
			_, _ = w.Write([]byte(`{"user":{"username":"clerk2"}}`))
		}
	})
	repo := NewUserRepository(client)
	ctx := context.Background()

	me, err := repo.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "clerk", me.DisplayName())

	profile, err := repo.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", profile.Email)

	updated, err := repo.UpdateProfile(ctx, *profile)
	require.NoError(t, err)
	assert.Equal(t, "clerk2", updated.Username)

	require.NoError(t, repo.ChangePassword(ctx, "old", "newpass"))
	assert.Equal(t, []string{"GET /api/auth/me", "GET /api/profile", "PUT /api/profile", "PUT /api/profile"}, seen)
}
