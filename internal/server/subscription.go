package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/leavehub/leavehub/internal/subscription/domain"
)

func (s *Server) GetSubscription(c *gin.Context) {
	view, err := s.subscriptionSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": view})
}

type upgradeSubscriptionRequest struct {
	Plan  string `json:"plan"`
	Seats int    `json:"seats"`
}

func (s *Server) UpgradeSubscription(c *gin.Context) {
	var req upgradeSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.subscriptionSvc.Upgrade(c.Request.Context(), subscriptiondomain.UpgradeRequest{
		Plan:  req.Plan,
		Seats: req.Seats,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}
