package bookinstance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/internal/book"
	"librarian/pkg/models"
)

func newRouter(t *testing.T, h *Handler) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.LoadHTMLGlob("../../templates/*.html")
	h.RegisterRoutes(r.Group("/catalog"))
	return r
}

func postForm(r *gin.Engine, path string, v url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateAppliesDefaults(t *testing.T) {
	db := testDB(t)
	b := seedBook(t, db, "The Hobbit")
	repo := NewRepo(db)
	r := newRouter(t, NewHandler(repo, book.NewRepo(db)))

	// no status and no due date submitted
	v := url.Values{}
	v.Set("book", b.ID)
	v.Set("imprint", "Allen & Unwin, 1937")
	w := postForm(r, "/catalog/bookinstance/create", v)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/catalog/bookinstance/"), "unexpected redirect %q", loc)

	id := strings.TrimPrefix(loc, "/catalog/bookinstance/")
	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusMaintenance, got.Status)
	assert.WithinDuration(t, time.Now().UTC(), got.DueBack, time.Minute)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	db := testDB(t)
	b := seedBook(t, db, "The Hobbit")
	repo := NewRepo(db)
	r := newRouter(t, NewHandler(repo, book.NewRepo(db)))

	v := url.Values{}
	v.Set("book", b.ID)
	v.Set("imprint", "Allen & Unwin, 1937")
	v.Set("status", "Lost")
	w := postForm(r, "/catalog/bookinstance/create", v)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid status")

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteAlwaysSucceeds(t *testing.T) {
	db := testDB(t)
	b := seedBook(t, db, "The Hobbit")
	repo := NewRepo(db)
	r := newRouter(t, NewHandler(repo, book.NewRepo(db)))
	ctx := context.Background()

	saved, err := repo.Insert(ctx, models.BookInstance{
		BookID: b.ID, Imprint: "x", Status: models.StatusAvailable,
	})
	require.NoError(t, err)

	w := postForm(r, "/catalog/bookinstance/"+saved.ID+"/delete", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog/bookinstances", w.Header().Get("Location"))

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	db := testDB(t)
	b := seedBook(t, db, "The Hobbit")
	repo := NewRepo(db)
	r := newRouter(t, NewHandler(repo, book.NewRepo(db)))
	ctx := context.Background()

	due := time.Date(2017, time.August, 3, 0, 0, 0, 0, time.UTC)
	saved, err := repo.Insert(ctx, models.BookInstance{
		BookID: b.ID, Imprint: "Allen & Unwin, 1937", Status: models.StatusLoaned, DueBack: due,
	})
	require.NoError(t, err)

	v := url.Values{}
	v.Set("book", b.ID)
	v.Set("imprint", "Allen & Unwin, 1951")
	v.Set("status", models.StatusAvailable)
	w := postForm(r, "/catalog/bookinstance/"+saved.ID+"/update", v)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog/bookinstance/"+saved.ID, w.Header().Get("Location"))

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Allen &amp; Unwin, 1951", got.Imprint)
	assert.Equal(t, models.StatusAvailable, got.Status)
}
