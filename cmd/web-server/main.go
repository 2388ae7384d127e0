package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"librarian/internal/author"
	"librarian/internal/book"
	"librarian/internal/bookinstance"
	"librarian/internal/catalog"
	"librarian/internal/genre"
	"librarian/internal/web"
	"librarian/pkg/database"
	"librarian/pkg/utils"
)

func main() {
	srvCfg := utils.LoadServerConfig()
	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(web.RateLimit())
	router.LoadHTMLGlob("templates/*.html")

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/catalog")
	})

	authorRepo := author.NewRepo(db)
	genreRepo := genre.NewRepo(db)
	bookRepo := book.NewRepo(db)
	copyRepo := bookinstance.NewRepo(db)

	cat := router.Group("/catalog")
	catalog.NewHandler(authorRepo, genreRepo, bookRepo, copyRepo).RegisterRoutes(cat)
	author.NewHandler(authorRepo, bookRepo).RegisterRoutes(cat)
	genre.NewHandler(genreRepo, bookRepo).RegisterRoutes(cat)
	book.NewHandler(bookRepo, authorRepo, genreRepo, copyRepo).RegisterRoutes(cat)
	bookinstance.NewHandler(copyRepo, bookRepo).RegisterRoutes(cat)

	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("library server listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
