package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/services"
)

type BooksController struct {
	catalog services.Catalog
	log     *zap.Logger
}

func NewBooksController(c services.Catalog, log *zap.Logger) *BooksController {
	return &BooksController{catalog: c, log: log}
}

// Search runs a catalog search.
// GET /api/books?method=name&value=dune&sort=release_year&order=desc
func (bc *BooksController) Search(c *gin.Context) {
	method, err := catalog.ParseSearchMethod(c.DefaultQuery("method", "name"))
	if err != nil {
		respondDomainError(c, bc.log, err, "search books")
		return
	}
	sortBy, err := catalog.ParseSortKey(c.Query("sort"))
	if err != nil {
		respondDomainError(c, bc.log, err, "search books")
		return
	}
	var ascending bool
	switch strings.ToLower(c.DefaultQuery("order", "asc")) {
	case "asc":
		ascending = true
	case "desc":
		ascending = false
	default:
		respondBadRequest(c, "order must be asc or desc")
		return
	}

	value := c.Query("value")
	if value == "" {
		respondBadRequest(c, "value is required")
		return
	}

	books, err := bc.catalog.SearchBooks(c.Request.Context(), catalog.SearchQuery{
		Method:    method,
		Value:     value,
		SortBy:    sortBy,
		Ascending: ascending,
		Viewer:    sessionUser(c),
	})
	if err != nil {
		respondDomainError(c, bc.log, err, "search books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook returns one book with the viewer's rating.
// GET /api/books/:isbn
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.catalog.GetBook(c.Request.Context(), c.Param("isbn"), sessionUser(c))
	if err != nil {
		respondDomainError(c, bc.log, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}
