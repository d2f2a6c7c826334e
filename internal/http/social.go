package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/services"
)

type SocialController struct {
	graph services.SocialGraph
	log   *zap.Logger
}

func NewSocialController(graph services.SocialGraph, log *zap.Logger) *SocialController {
	return &SocialController{graph: graph, log: log}
}

// Follow makes the session user follow :username.
// POST /api/users/:username/follow
func (sc *SocialController) Follow(c *gin.Context) {
	if err := sc.graph.Follow(c.Request.Context(), sessionUser(c), c.Param("username")); err != nil {
		respondDomainError(c, sc.log, err, "follow")
		return
	}
	respondSuccess(c, "following "+c.Param("username"))
}

// Unfollow removes the edge.
// DELETE /api/users/:username/follow
func (sc *SocialController) Unfollow(c *gin.Context) {
	if err := sc.graph.Unfollow(c.Request.Context(), sessionUser(c), c.Param("username")); err != nil {
		respondDomainError(c, sc.log, err, "unfollow")
		return
	}
	respondSuccess(c, "unfollowed "+c.Param("username"))
}

// Followers lists who follows :username.
// GET /api/users/:username/followers
func (sc *SocialController) Followers(c *gin.Context) {
	names, err := sc.graph.ListFollowers(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondDomainError(c, sc.log, err, "list followers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": names, "count": len(names)})
}

// Following lists who :username follows.
// GET /api/users/:username/following
func (sc *SocialController) Following(c *gin.Context) {
	names, err := sc.graph.ListFollowing(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondDomainError(c, sc.log, err, "list following")
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": names, "count": len(names)})
}
