package bookinstance

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"librarian/internal/forms"
	"librarian/internal/web"
	"librarian/pkg/models"
)

// BookLister supplies the candidate books for the copy form selector.
type BookLister interface {
	List(ctx context.Context) ([]models.Book, error)
}

type Handler struct {
	Repo  *Repo
	Books BookLister
}

func NewHandler(repo *Repo, books BookLister) *Handler {
	return &Handler{Repo: repo, Books: books}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookinstances", h.list)
	rg.GET("/bookinstance/create", h.createGet)
	rg.POST("/bookinstance/create", h.createPost)
	rg.GET("/bookinstance/:id", h.detail)
	rg.GET("/bookinstance/:id/delete", h.deleteGet)
	rg.POST("/bookinstance/:id/delete", h.deletePost)
	rg.GET("/bookinstance/:id/update", h.updateGet)
	rg.POST("/bookinstance/:id/update", h.updatePost)
}

var instanceRules = []forms.Rule{
	{Field: "book", Tag: "required", Message: "Book must be specified"},
	{Field: "imprint", Tag: "required", Message: "Imprint must be specified"},
	{Field: "status", Tag: "omitempty,oneof=Available Maintenance Loaned Reserved", Message: "Invalid status"},
	{Field: "due_back", Tag: "omitempty,datetime=2006-01-02", Message: "Invalid date"},
}

func instanceFromForm(v url.Values) models.BookInstance {
	status := forms.Clean(v.Get("status"))
	if status == "" {
		status = models.StatusMaintenance
	}
	due := time.Now().UTC()
	if t := forms.CleanDate(v.Get("due_back")); t != nil {
		due = *t
	}
	return models.BookInstance{
		BookID:  forms.CleanID(v.Get("book")),
		Imprint: forms.Clean(v.Get("imprint")),
		Status:  status,
		DueBack: due,
	}
}

func (h *Handler) list(c *gin.Context) {
	copies, err := h.Repo.List(c.Request.Context())
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_list.html", gin.H{
		"title":  "Book Instance List",
		"copies": copies,
	})
}

// detail's single fetch already populates the copy's book, so there is
// nothing to join concurrently here.
func (h *Handler) detail(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	bi, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if bi == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "bookinstance_detail.html", gin.H{
		"title":        "Book Instance Detail",
		"bookinstance": bi,
	})
}

func (h *Handler) createGet(c *gin.Context) {
	books, err := h.Books.List(c.Request.Context())
	if err != nil {
		web.ServerError(c, err)
		return
	}
	c.HTML(http.StatusOK, "bookinstance_form.html", gin.H{
		"title":    "Create BookInstance",
		"books":    books,
		"statuses": models.AllStatuses,
	})
}

func (h *Handler) createPost(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, instanceRules)
	cand := instanceFromForm(v)

	if len(errs) > 0 {
		books, err := h.Books.List(c.Request.Context())
		if err != nil {
			web.ServerError(c, err)
			return
		}
		c.HTML(http.StatusUnprocessableEntity, "bookinstance_form.html", gin.H{
			"title":        "Create BookInstance",
			"bookinstance": &cand,
			"books":        books,
			"statuses":     models.AllStatuses,
			"errors":       errs,
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

	bi, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	status := http.StatusOK
	if bi == nil {
		status = http.StatusNotFound
	}
	c.HTML(status, "bookinstance_delete.html", gin.H{
		"title":        "Delete Book Instance",
		"bookinstance": bi,
	})
}

// deletePost has no dependent kind to refuse on: a copy that exists is
// always deletable.
func (h *Handler) deletePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	bi, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		web.ServerError(c, err)
		return
	}

	if bi != nil {
		if _, err := h.Repo.DeleteByID(c.Request.Context(), bi.ID); err != nil {
			web.ServerError(c, err)
			return
		}
	}
	c.Redirect(http.StatusSeeOther, "/catalog/bookinstances")
}

func (h *Handler) updateGet(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	g, ctx := errgroup.WithContext(c.Request.Context())

	var bi *models.BookInstance
	var books []models.Book
	g.Go(func() error {
		var err error
		bi, err = h.Repo.GetByID(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.Books.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		web.ServerError(c, err)
		return
	}
	if bi == nil {
		web.NotFound(c)
		return
	}

	c.HTML(http.StatusOK, "bookinstance_form.html", gin.H{
		"title":        "Update BookInstance",
		"bookinstance": bi,
		"books":        books,
		"statuses":     models.AllStatuses,
	})
}

func (h *Handler) updatePost(c *gin.Context) {
	id := forms.CleanID(c.Param("id"))

	if err := c.Request.ParseForm(); err != nil {
		web.ServerError(c, err)
		return
	}
	v := c.Request.PostForm

	errs := forms.Check(v, instanceRules)
	cand := instanceFromForm(v)
	cand.ID = id

	if len(errs) > 0 {
		books, err := h.Books.List(c.Request.Context())
		if err != nil {
			web.ServerError(c, err)
			return
		}
		c.HTML(http.StatusUnprocessableEntity, "bookinstance_form.html", gin.H{
			"title":        "Update BookInstance",
			"bookinstance": &cand,
			"books":        books,
			"statuses":     models.AllStatuses,
			"errors":       errs,
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
