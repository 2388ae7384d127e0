package genre

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

// BookLister provides the genre's dependent records.
type BookLister interface {
	ListByGenre(ctx context.Context, genreID string) ([]models.Book, error)
}

type Handler struct {
	Repo  *Repo
	Books BookLister
}

func NewHandler(repo *Repo, books BookLister) *Handler {
	return &Handler{Repo: repo, Books: books}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/genres", h.list)
	rg.GET("/genre/create", h.createGet)
	rg.POST("/genre/create", h.createPost)
	rg.GET("/genre/:id", h.detail)
	rg.GET("/genre/:id/delete", h.deleteGet)
	rg.POST("/genre/:id/delete", h.deletePost)
	rg.GET("/genre/:id/update", h.updateGet)
	rg.POST("/genre/:id/update", h.updatePost)
}

var genreRules = []forms.Rule{
	{Field: "name", Tag: "required", Message: "Genre name required"},
	{Field: "name", Tag: "omitempty,min=3,max=100", Message: "Genre name must be between 3 and 100 characters"},
}

func genreFromForm(v url.Values) models.Genre {
	return models.Genre{
		Name: forms.Clean(v.Get("name")),
	}
}

func (h *Handler) list(c *gin.Context) {
	genres, err := h.Repo.List(c.Request.Context())
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "genre_list.html", gin.H{
		"title":  "Genre List",
		"genres": genres,
	})
}

func (h *Handler) fetchWithBooks(ctx context.Context, id string) (*models.Genre, []models.Book, error) {
	g, ctx := errgroup.WithContext(ctx)

	var gen *models.Genre
	var books []models.Book
	g.Go(func() error {
		var err error
		gen, err = h.Repo.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.Books.ListByGenre(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return gen, books, nil
}

func (h *Handler) detail(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	gen, books, err := h.fetchWithBooks(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if gen == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "genre_detail.html", gin.H{
		"title": "Genre Detail",
		"genre": gen,
		"books": books,
	})
}

func (h *Handler) createGet(c *gin.Context) {
	c.HTML(http.StatusOK, "genre_form.html", gin.H{
		"title": "Create Genre",
	})
}

func (h *Handler) createPost(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, genreRules)
	cand := genreFromForm(v)

	if len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "genre_form.html", gin.H{
			"title":  "Create Genre",
			"genre":  &cand,
			"errors": errs,
		})
		return
	}

	// Creation is idempotent by name: an existing genre wins and the
	// request redirects there instead of inserting a duplicate.
	// Check-then-act: two concurrent creates of the same name can both
	// miss the lookup. Accepted, there is no uniqueness constraint.
	found, err := h.Repo.GetByName(c.Request.Context(), cand.Name)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	if found != nil {
		c.Redirect(http.StatusSeeOther, found.URL())
		return
	}

	saved, err := h.Repo.Insert(c.Request.Context(), cand)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, saved.URL())
}

func (h *Handler) deleteGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	gen, books, err := h.fetchWithBooks(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if gen == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "genre_delete.html", gin.H{
		"title": "Delete Genre",
		"genre": gen,
		"books": books,
	})
}

func (h *Handler) deletePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	gen, books, err := h.fetchWithBooks(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	if len(books) > 0 {
		c.HTML(http.StatusOK, "genre_delete.html", gin.H{
			"title": "Delete Genre",
			"genre": gen,
			"books": books,
		})
		return
	}

	if gen != nil {
		if _, err := h.Repo.DeleteByID(c.Request.Context(), gen.ID); err != nil {
			web.ServerError(c, err)
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/catalog/genres")
}

func (h *Handler) updateGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	gen, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	if gen == nil {
		web.NotFound(c)
		return
	}

	c.HTML(http.StatusOK, "genre_form.html", gin.H{
		"title": "Update Genre",
		"genre": gen,
	})
}

func (h *Handler) updatePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, genreRules)
	cand := genreFromForm(v)
	cand.ID = id

	if len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "genre_form.html", gin.H{
			"title":  "Update Genre",
			"genre":  &cand,
			"errors": errs,
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
