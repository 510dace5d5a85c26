package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
)

func (s *Server) ListMembers(c *gin.Context) {
	pageSize := 0
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("page_size", "invalid_page_size", "invalid page size"))
			return
		}
		pageSize = parsed
	}

	resp, err := s.memberSvc.List(c.Request.Context(), memberdomain.ListMembersRequest{
		Status:    c.Query("status"),
		PageToken: c.Query("page_token"),
		PageSize:  int32(pageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      resp.Members,
		"page_info": resp.PageInfo,
	})
}

type bulkMembersRequest struct {
	MemberIDs []string `json:"member_ids"`
}

func (s *Server) BulkArchiveMembers(c *gin.Context) {
	s.bulkMemberAction(c, s.memberSvc.BulkArchive)
}

func (s *Server) BulkUnarchiveMembers(c *gin.Context) {
	s.bulkMemberAction(c, s.memberSvc.BulkUnarchive)
}

func (s *Server) BulkActivateMembers(c *gin.Context) {
	s.bulkMemberAction(c, s.memberSvc.BulkActivate)
}

func (s *Server) BulkDeleteMembers(c *gin.Context) {
	s.bulkMemberAction(c, s.memberSvc.BulkDelete)
}

func (s *Server) bulkMemberAction(
	c *gin.Context,
	action func(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error),
) {
	var req bulkMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := action(c.Request.Context(), memberdomain.BulkActionRequest{
		MemberIDs: req.MemberIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
