package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/services"
)

type CollectionsController struct {
	collections services.Collections
	log         *zap.Logger
}

func NewCollectionsController(collections services.Collections, log *zap.Logger) *CollectionsController {
	return &CollectionsController{collections: collections, log: log}
}

type createCollectionRequest struct {
	Name  string   `json:"name" binding:"required"`
	ISBNs []string `json:"isbns"`
}

type renameCollectionRequest struct {
	Name string `json:"name" binding:"required"`
}

type collectionBooksRequest struct {
	ISBNs []string `json:"isbns" binding:"required,min=1"`
}

// List returns a user's collections with counts and total length.
// GET /api/users/:username/collections
func (cc *CollectionsController) List(c *gin.Context) {
	summaries, err := cc.collections.ListCollections(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondDomainError(c, cc.log, err, "list collections")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": summaries, "count": len(summaries)})
}

// Contents returns the books in one collection.
// GET /api/users/:username/collections/:name
func (cc *CollectionsController) Contents(c *gin.Context) {
	books, err := cc.collections.GetCollectionContents(c.Request.Context(), c.Param("username"), c.Param("name"))
	if err != nil {
		respondDomainError(c, cc.log, err, "collection contents")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// Create makes a collection owned by the session user.
// POST /api/collections
func (cc *CollectionsController) Create(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	collection, err := cc.collections.CreateCollection(c.Request.Context(), sessionUser(c), req.Name, req.ISBNs)
	if err != nil {
		respondDomainError(c, cc.log, err, "create collection")
		return
	}
	respondCreated(c, collection)
}

// Rename changes a collection's name.
// PATCH /api/collections/:name
func (cc *CollectionsController) Rename(c *gin.Context) {
	var req renameCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	if err := cc.collections.RenameCollection(c.Request.Context(), sessionUser(c), c.Param("name"), req.Name); err != nil {
		respondDomainError(c, cc.log, err, "rename collection")
		return
	}
	respondSuccess(c, "collection renamed")
}

// Delete removes a collection and its memberships.
// DELETE /api/collections/:name
func (cc *CollectionsController) Delete(c *gin.Context) {
	if err := cc.collections.DeleteCollection(c.Request.Context(), sessionUser(c), c.Param("name")); err != nil {
		respondDomainError(c, cc.log, err, "delete collection")
		return
	}
	respondSuccess(c, "collection deleted")
}

// AddBooks adds books to a collection.
// POST /api/collections/:name/books
func (cc *CollectionsController) AddBooks(c *gin.Context) {
	var req collectionBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "at least one isbn is required")
		return
	}

	if err := cc.collections.AddBooks(c.Request.Context(), sessionUser(c), c.Param("name"), req.ISBNs); err != nil {
		respondDomainError(c, cc.log, err, "add books")
		return
	}
	respondSuccess(c, "books added")
}

// RemoveBooks removes books from a collection.
// DELETE /api/collections/:name/books
func (cc *CollectionsController) RemoveBooks(c *gin.Context) {
	var req collectionBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "at least one isbn is required")
		return
	}

	if err := cc.collections.RemoveBooks(c.Request.Context(), sessionUser(c), c.Param("name"), req.ISBNs); err != nil {
		respondDomainError(c, cc.log, err, "remove books")
		return
	}
	respondSuccess(c, "books removed")
}
