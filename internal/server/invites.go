package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	invitationdomain "github.com/leavehub/leavehub/internal/invitation/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
)

type inviteMemberRequest struct {
	Name                string              `json:"name"`
	Email               string              `json:"email"`
	CustomID            string              `json:"custom_id"`
	Status              string              `json:"status"`
	DepartmentIDs       []string            `json:"department_ids"`
	PublicHolidayID     string              `json:"public_holiday_id"`
	EmploymentStartDate string              `json:"employment_start_date"`
	Allowances          []allowanceGrantDTO `json:"allowances"`
}

type allowanceGrantDTO struct {
	AllowanceTypeID string  `json:"allowance_type_id"`
	CurrentYear     float64 `json:"current_year"`
	NextYear        float64 `json:"next_year"`
}

func (s *Server) InviteMember(c *gin.Context) {
	var req inviteMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invite, err := buildInviteRequest(req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.invitationSvc.Invite(c.Request.Context(), invite)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": result})
}

type verifyInviteRequest struct {
	Code string `json:"code"`
}

func (s *Server) VerifyInvite(c *gin.Context) {
	var req verifyInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.invitationSvc.Verify(c.Request.Context(), invitationdomain.VerifyRequest{
		Code: req.Code,
	}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func buildInviteRequest(req inviteMemberRequest) (invitationdomain.InviteRequest, error) {
	invite := invitationdomain.InviteRequest{
		Name:     req.Name,
		Email:    req.Email,
		CustomID: req.CustomID,
		Status:   memberdomain.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
	}

	for _, raw := range req.DepartmentIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			return invitationdomain.InviteRequest{}, newValidationError("department_ids", "invalid_department_id", "malformed department id")
		}
		invite.DepartmentIDs = append(invite.DepartmentIDs, id)
	}

	if raw := strings.TrimSpace(req.PublicHolidayID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return invitationdomain.InviteRequest{}, newValidationError("public_holiday_id", "invalid_public_holiday_id", "malformed public holiday id")
		}
		invite.PublicHolidayID = &id
	}

	if raw := strings.TrimSpace(req.EmploymentStartDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return invitationdomain.InviteRequest{}, newValidationError("employment_start_date", "invalid_date", "expected YYYY-MM-DD")
		}
		invite.EmploymentStartDate = &parsed
	}

	for _, grant := range req.Allowances {
		typeID, err := snowflake.ParseString(strings.TrimSpace(grant.AllowanceTypeID))
		if err != nil {
			return invitationdomain.InviteRequest{}, newValidationError("allowances", "invalid_allowance_type_id", "malformed allowance type id")
		}
		invite.Allowances = append(invite.Allowances, memberdomain.AllowanceGrant{
			AllowanceTypeID: typeID,
			CurrentYear:     grant.CurrentYear,
			NextYear:        grant.NextYear,
		})
	}

	return invite, nil
}
