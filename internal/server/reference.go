package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
)

func (s *Server) ListDepartments(c *gin.Context) {
	departments, err := s.departmentSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": departments})
}

func (s *Server) CreateDepartment(c *gin.Context) {
	var req departmentdomain.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.departmentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) ListPublicHolidays(c *gin.Context) {
	holidays, err := s.holidaySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": holidays})
}

func (s *Server) CreatePublicHoliday(c *gin.Context) {
	var req holidaydomain.CreatePublicHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.holidaySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) ListAllowanceTypes(c *gin.Context) {
	types, err := s.allowanceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": types})
}

func (s *Server) CreateAllowanceType(c *gin.Context) {
	var req allowancedomain.CreateAllowanceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.allowanceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}
