package book

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/internal/author"
	"librarian/internal/bookinstance"
	"librarian/internal/genre"
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

func TestCreateWithGenresRedirects(t *testing.T) {
	db := testDB(t)
	f := setup(t, db)
	h := NewHandler(f.repo, author.NewRepo(db), genre.NewRepo(db), bookinstance.NewRepo(db))
	r := newRouter(t, h)

	v := url.Values{}
	v.Set("title", "The Hobbit")
	v.Set("author", f.tolkien.ID)
	v.Set("summary", "There and back again.")
	v.Set("isbn", "9780261102217")
	v.Add("genre", f.fantasy.ID)
	v.Add("genre", f.scifi.ID)
	w := postForm(r, "/catalog/book/create", v)

	require.Equal(t, http.StatusSeeOther, w.Code)
	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/catalog/book/"), "unexpected redirect %q", loc)

	id := strings.TrimPrefix(loc, "/catalog/book/")
	got, err := f.repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.ElementsMatch(t, []string{f.fantasy.ID, f.scifi.ID}, got.GenreIDs)
}

func TestCreateValidationFailureMutatesNothing(t *testing.T) {
	db := testDB(t)
	f := setup(t, db)
	h := NewHandler(f.repo, author.NewRepo(db), genre.NewRepo(db), bookinstance.NewRepo(db))
	r := newRouter(t, h)

	v := url.Values{}
	v.Set("title", "The Hobbit")
	v.Add("genre", f.fantasy.ID)
	w := postForm(r, "/catalog/book/create", v)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Author must not be empty.")
	assert.Contains(t, w.Body.String(), "Summary must not be empty.")
	assert.Contains(t, w.Body.String(), "ISBN must not be empty.")
	// the submitted genre stays ticked on the re-rendered form
	assert.Contains(t, w.Body.String(), "checked")

	books, err := f.repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestUpdateReplacesWholeRecord(t *testing.T) {
	db := testDB(t)
	f := setup(t, db)
	h := NewHandler(f.repo, author.NewRepo(db), genre.NewRepo(db), bookinstance.NewRepo(db))
	r := newRouter(t, h)
	ctx := context.Background()

	saved, err := f.repo.Insert(ctx, models.Book{
		Title: "The Hobbit", AuthorID: f.tolkien.ID, Summary: "s", ISBN: "i",
		GenreIDs: []string{f.fantasy.ID},
	})
	require.NoError(t, err)

	// no genre boxes ticked: the stored set is cleared, not kept
	v := url.Values{}
	v.Set("title", "The Hobbit")
	v.Set("author", f.tolkien.ID)
	v.Set("summary", "There and back again.")
	v.Set("isbn", "9780261102217")
	w := postForm(r, "/catalog/book/"+saved.ID+"/update", v)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog/book/"+saved.ID, w.Header().Get("Location"))

	got, err := f.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "There and back again.", got.Summary)
	assert.Empty(t, got.GenreIDs)
}

func TestUpdateValidationFailureKeepsStoredRecord(t *testing.T) {
	db := testDB(t)
	f := setup(t, db)
	h := NewHandler(f.repo, author.NewRepo(db), genre.NewRepo(db), bookinstance.NewRepo(db))
	r := newRouter(t, h)
	ctx := context.Background()

	saved, err := f.repo.Insert(ctx, models.Book{
		Title: "The Hobbit", AuthorID: f.tolkien.ID, Summary: "s", ISBN: "i",
	})
	require.NoError(t, err)

	v := url.Values{}
	v.Set("title", "The Hobbit")
	v.Set("author", f.tolkien.ID)
	v.Set("summary", "changed")
	// isbn missing
	w := postForm(r, "/catalog/book/"+saved.ID+"/update", v)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	got, err := f.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s", got.Summary)
}

func TestDeleteRefusedWhileCopiesExist(t *testing.T) {
	db := testDB(t)
	f := setup(t, db)
	copies := bookinstance.NewRepo(db)
	h := NewHandler(f.repo, author.NewRepo(db), genre.NewRepo(db), copies)
	r := newRouter(t, h)
	ctx := context.Background()

	saved, err := f.repo.Insert(ctx, models.Book{
		Title: "The Hobbit", AuthorID: f.tolkien.ID, Summary: "s", ISBN: "i",
	})
	require.NoError(t, err)
	_, err = copies.Insert(ctx, models.BookInstance{
		BookID: saved.ID, Imprint: "Allen & Unwin, 1937", Status: models.StatusAvailable,
	})
	require.NoError(t, err)

	w := postForm(r, "/catalog/book/"+saved.ID+"/delete", url.Values{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Allen &amp; Unwin, 1937")

	got, err := f.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestDeleteWithoutCopies(t *testing.T) {
	db := testDB(t)
	f := setup(t, db)
	h := NewHandler(f.repo, author.NewRepo(db), genre.NewRepo(db), bookinstance.NewRepo(db))
	r := newRouter(t, h)
	ctx := context.Background()

	saved, err := f.repo.Insert(ctx, models.Book{
		Title: "The Hobbit", AuthorID: f.tolkien.ID, Summary: "s", ISBN: "i",
	})
	require.NoError(t, err)

	w := postForm(r, "/catalog/book/"+saved.ID+"/delete", url.Values{})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog/books", w.Header().Get("Location"))

	got, err := f.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
