package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/services"
)

type ReadingController struct {
	reading       services.ReadingLog
	topBooksLimit int
	log           *zap.Logger
}

func NewReadingController(reading services.ReadingLog, topBooksLimit int, log *zap.Logger) *ReadingController {
	return &ReadingController{reading: reading, topBooksLimit: topBooksLimit, log: log}
}

type rateBookRequest struct {
	Stars *int `json:"stars" binding:"required"`
}

type pagesRequest struct {
	StartPage *int `json:"start_page" binding:"required"`
	EndPage   *int `json:"end_page" binding:"required"`
}

// RateBook sets the session user's rating for a book.
// PUT /api/books/:isbn/rating
func (rc *ReadingController) RateBook(c *gin.Context) {
	var req rateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "stars is required")
		return
	}

	if err := rc.reading.RateBook(c.Request.Context(), sessionUser(c), c.Param("isbn"), *req.Stars); err != nil {
		respondDomainError(c, rc.log, err, "rate book")
		return
	}
	respondSuccess(c, "rating saved")
}

// ReadBook logs a reading session.
// POST /api/books/:isbn/reads
func (rc *ReadingController) ReadBook(c *gin.Context) {
	var req pagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "start_page and end_page are required")
		return
	}

	session, err := rc.reading.ReadBook(c.Request.Context(), sessionUser(c), c.Param("isbn"), *req.StartPage, *req.EndPage)
	if err != nil {
		respondDomainError(c, rc.log, err, "read book")
		return
	}
	respondCreated(c, session)
}

// ReadRandom logs a session for a random member of a collection.
// POST /api/collections/:name/reads/random
func (rc *ReadingController) ReadRandom(c *gin.Context) {
	var req pagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "start_page and end_page are required")
		return
	}

	read, err := rc.reading.ReadRandomFromCollection(c.Request.Context(), sessionUser(c), c.Param("name"), *req.StartPage, *req.EndPage)
	if err != nil {
		respondDomainError(c, rc.log, err, "random read")
		return
	}
	respondCreated(c, read)
}

// TopBooks lists a user's most-read books.
// GET /api/users/:username/top-books?limit=10
func (rc *ReadingController) TopBooks(c *gin.Context) {
	limit, ok := parseIntQuery(c, "limit", rc.topBooksLimit)
	if !ok {
		return
	}

	books, err := rc.reading.GetTopBooks(c.Request.Context(), c.Param("username"), limit)
	if err != nil {
		respondDomainError(c, rc.log, err, "top books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}
