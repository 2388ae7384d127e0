package author

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

// BookLister is the slice of the book repo this handler needs: the
// author's dependent records.
type BookLister interface {
	ListByAuthor(ctx context.Context, authorID string) ([]models.Book, error)
}

type Handler struct {
	Repo  *Repo
	Books BookLister
}

func NewHandler(repo *Repo, books BookLister) *Handler {
	return &Handler{Repo: repo, Books: books}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/authors", h.list)
	rg.GET("/author/create", h.createGet)
	rg.POST("/author/create", h.createPost)
	rg.GET("/author/:id", h.detail)
	rg.GET("/author/:id/delete", h.deleteGet)
	rg.POST("/author/:id/delete", h.deletePost)
	rg.GET("/author/:id/update", h.updateGet)
	rg.POST("/author/:id/update", h.updatePost)
}

var authorRules = []forms.Rule{
	{Field: "first_name", Tag: "required", Message: "First name must be specified."},
	{Field: "family_name", Tag: "required", Message: "Family name must be specified."},
	{Field: "family_name", Tag: "omitempty,alpha", Message: "Family name must be alphabetic text."},
	{Field: "date_of_birth", Tag: "omitempty,datetime=2006-01-02", Message: "Invalid date of birth."},
	{Field: "date_of_death", Tag: "omitempty,datetime=2006-01-02", Message: "Invalid date of death."},
}

// authorFromForm builds the candidate record from sanitized fields.
// It runs whether or not validation passed, so an error re-render only
// ever echoes cleaned values.
func authorFromForm(v url.Values) models.Author {
	return models.Author{
		FirstName:   forms.Clean(v.Get("first_name")),
		FamilyName:  forms.Clean(v.Get("family_name")),
		DateOfBirth: forms.CleanDate(v.Get("date_of_birth")),
		DateOfDeath: forms.CleanDate(v.Get("date_of_death")),
	}
}

func (h *Handler) list(c *gin.Context) {
	authors, err := h.Repo.List(c.Request.Context())
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "author_list.html", gin.H{
		"title":   "Author List",
		"authors": authors,
	})
}

// fetchWithBooks runs the two independent lookups concurrently and
// fails as soon as either does.
func (h *Handler) fetchWithBooks(ctx context.Context, id string) (*models.Author, []models.Book, error) {
	g, ctx := errgroup.WithContext(ctx)

	var a *models.Author
	var books []models.Book
	g.Go(func() error {
		var err error
		a, err = h.Repo.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.Books.ListByAuthor(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, books, nil
}

func (h *Handler) detail(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	a, books, err := h.fetchWithBooks(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if a == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "author_detail.html", gin.H{
		"title":  "Author Detail",
		"author": a,
		"books":  books,
	})
}

func (h *Handler) createGet(c *gin.Context) {
	c.HTML(http.StatusOK, "author_form.html", gin.H{
		"title": "Create Author",
	})
}

func (h *Handler) createPost(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, authorRules)
	cand := authorFromForm(v)

	if len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "author_form.html", gin.H{
			"title":  "Create Author",
			"author": &cand,
			"errors": errs,
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

func (h *Handler) deleteGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	a, books, err := h.fetchWithBooks(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if a == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "author_delete.html", gin.H{
		"title":  "Delete Author",
		"author": a,
		"books":  books,
	})
}

func (h *Handler) deletePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	a, books, err := h.fetchWithBooks(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	// Dependent books block the delete. This is a policy refusal, not
	// an error: show the confirmation view again with the dependents.
	if len(books) > 0 {
		c.HTML(http.StatusOK, "author_delete.html", gin.H{
			"title":  "Delete Author",
			"author": a,
			"books":  books,
		})
		return
	}

	if a != nil {
		if _, err := h.Repo.DeleteByID(c.Request.Context(), a.ID); err != nil {
			web.ServerError(c, err)
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/catalog/authors")
}

func (h *Handler) updateGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	a, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}
	if a == nil {
		web.NotFound(c)
		return
	}

	c.HTML(http.StatusOK, "author_form.html", gin.H{
		"title":  "Update Author",
		"author": a,
	})
}

func (h *Handler) updatePost(c *gin.Context) {
	// The id always comes from the route, never the form body.
	id := forms.CleanID(c.Param("id"))

	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, authorRules)
	cand := authorFromForm(v)
	cand.ID = id

	if len(errs) > 0 {
		c.HTML(http.StatusUnprocessableEntity, "author_form.html", gin.H{
			"title":  "Update Author",
			"author": &cand,
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
