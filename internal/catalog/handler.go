// Package catalog serves the home page: headline counts for every
// record kind.
package catalog

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"librarian/internal/web"
	"librarian/pkg/models"
)

type Counter interface {
	Count(ctx context.Context) (int, error)
}

type CopyCounter interface {
	Counter
	CountByStatus(ctx context.Context, status string) (int, error)
}

type Handler struct {
	Authors Counter
	Genres  Counter
	Books   Counter
	Copies  CopyCounter
}

func NewHandler(authors, genres, books Counter, copies CopyCounter) *Handler {
	return &Handler{Authors: authors, Genres: genres, Books: books, Copies: copies}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.index)
}

// index gathers the five counts concurrently; any failure fails the
// whole page.
func (h *Handler) index(c *gin.Context) {
	g, ctx := errgroup.WithContext(c.Request.Context())

	var authors, genres, books, copies, available int
	g.Go(func() error {
		var err error
		authors, err = h.Authors.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		genres, err = h.Genres.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = h.Books.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		copies, err = h.Copies.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		available, err = h.Copies.CountByStatus(ctx, models.StatusAvailable)
		return err
	})
	if err := g.Wait(); err != nil {
		web.ServerError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title":           "Local Library Home",
		"author_count":    authors,
		"genre_count":     genres,
		"book_count":      books,
		"copy_count":      copies,
		"available_count": available,
	})
}
