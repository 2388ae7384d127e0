package book

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"librarian/internal/forms"
	"librarian/internal/web"
	"librarian/pkg/models"
)

// The handler declares the exact slices of the other repos it needs,
// so its collaborators stay explicit.
type (
	AuthorLister interface {
		List(ctx context.Context) ([]models.Author, error)
	}
	GenreLister interface {
		List(ctx context.Context) ([]models.Genre, error)
	}
	CopyLister interface {
		ListByBook(ctx context.Context, bookID string) ([]models.BookInstance, error)
	}
)

type Handler struct {
	Repo    *Repo
	Authors AuthorLister
	Genres  GenreLister
	Copies  CopyLister
}

func NewHandler(repo *Repo, authors AuthorLister, genres GenreLister, copies CopyLister) *Handler {
	return &Handler{Repo: repo, Authors: authors, Genres: genres, Copies: copies}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books", h.list)
	rg.GET("/book/create", h.createGet)
	rg.POST("/book/create", h.createPost)
	rg.GET("/book/:id", h.detail)
	rg.GET("/book/:id/delete", h.deleteGet)
	rg.POST("/book/:id/delete", h.deletePost)
	rg.GET("/book/:id/update", h.updateGet)
	rg.POST("/book/:id/update", h.updatePost)
}

var bookRules = []forms.Rule{
	{Field: "title", Tag: "required", Message: "Title must not be empty."},
	{Field: "author", Tag: "required", Message: "Author must not be empty."},
	{Field: "summary", Tag: "required", Message: "Summary must not be empty."},
	{Field: "isbn", Tag: "required", Message: "ISBN must not be empty."},
}

func bookFromForm(v url.Values) models.Book {
	var genreIDs []string
	for _, raw := range v["genre"] {
		if id := forms.CleanID(raw); id != "" {
			genreIDs = append(genreIDs, id)
		}
	}
	return models.Book{
		Title:    forms.Clean(v.Get("title")),
		AuthorID: forms.CleanID(v.Get("author")),
		Summary:  forms.Clean(v.Get("summary")),
		ISBN:     forms.Clean(v.Get("isbn")),
		GenreIDs: genreIDs,
	}
}

func (h *Handler) list(c *gin.Context) {
	books, err := h.Repo.List(c.Request.Context())
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_list.html", gin.H{
		"title": "Book List",
		"books": books,
	})
}

func (h *Handler) detail(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	b, copies, err := h.fetchWithCopies(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if b == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "book_detail.html", gin.H{
		"title":  "Book Detail",
		"book":   b,
		"copies": copies,
	})
}

// selectorLists fetches both candidate lists for the form concurrently.
func (h *Handler) selectorLists(ctx context.Context) ([]models.Author, []models.Genre, error) {
	g, ctx := errgroup.WithContext(ctx)

	var authors []models.Author
	var genres []models.Genre
	g.Go(func() error {
		var err error
		authors, err = h.Authors.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = h.Genres.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return authors, genres, nil
}

func (h *Handler) createGet(c *gin.Context) {
	authors, genres, err := h.selectorLists(c.Request.Context())
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "book_form.html", gin.H{
		"title":   "Create Book",
		"authors": authors,
		"genres":  genres,
	})
}

func (h *Handler) createPost(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, bookRules)
	cand := bookFromForm(v)

	if len(errs) > 0 {
		// The selectors need fresh candidate lists; the mask reflects
		// the submitted selections, not anything stored.
		authors, genres, err := h.selectorLists(c.Request.Context())
		if err != nil {
			web.ServerError(c, err)
			return
		}
		c.HTML(http.StatusUnprocessableEntity, "book_form.html", gin.H{
			"title":   "Create Book",
			"book":    &cand,
			"authors": authors,
			"genres":  models.MarkChecked(genres, cand.GenreIDs),
			"errors":  errs,
		})
		return
	}

	saved, err := h.Repo.Insert(c.Request.Context(), cand)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, saved.URL())
}

func (h *Handler) fetchWithCopies(ctx context.Context, id string) (*models.Book, []models.BookInstance, error) {
	g, ctx := errgroup.WithContext(ctx)

	var b *models.Book
	var copies []models.BookInstance
	g.Go(func() error {
		var err error
		b, err = h.Repo.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		copies, err = h.Copies.ListByBook(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return b, copies, nil
}

func (h *Handler) deleteGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	b, copies, err := h.fetchWithCopies(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if b == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "book_delete.html", gin.H{
		"title":  "Delete Book",
		"book":   b,
		"copies": copies,
	})
}

func (h *Handler) deletePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	b, copies, err := h.fetchWithCopies(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	// Copies on the shelf block the delete.
	if len(copies) > 0 {
		c.HTML(http.StatusOK, "book_delete.html", gin.H{
			"title":  "Delete Book",
			"book":   b,
			"copies": copies,
		})
		return
	}

	if b != nil {
		if _, err := h.Repo.DeleteByID(c.Request.Context(), b.ID); err != nil {
			web.ServerError(c, err)
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/catalog/books")
}

func (h *Handler) updateGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	g, ctx := errgroup.WithContext(c.Request.Context())

	var b *models.Book
	var authors []models.Author
	var genres []models.Genre
	g.Go(func() error {
		var err error
		b, err = h.Repo.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		authors, err = h.Authors.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = h.Genres.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		web.ServerError(c, err)
		return
	}
	if b == nil {
		web.NotFound(c)
		return
	}

	c.HTML(http.StatusOK, "book_form.html", gin.H{
		"title":   "Update Book",
		"book":    b,
		"authors": authors,
		"genres":  models.MarkChecked(genres, b.GenreIDs),
	})
}

func (h *Handler) updatePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, bookRules)
	cand := bookFromForm(v)
	cand.ID = id

	if len(errs) > 0 {
		authors, genres, err := h.selectorLists(c.Request.Context())
		if err != nil {
			web.ServerError(c, err)
			return
		}
		c.HTML(http.StatusUnprocessableEntity, "book_form.html", gin.H{
			"title":   "Update Book",
			"book":    &cand,
			"authors": authors,
			"genres":  models.MarkChecked(genres, cand.GenreIDs),
			"errors":  errs,
		})
		return
	}

	saved, err := h.Repo.ReplaceByID(c.Request.Context(), id, cand)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, saved.URL())
}
