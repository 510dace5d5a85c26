package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/leavehub/leavehub/internal/observability/context"
	"github.com/leavehub/leavehub/internal/orgcontext"
)

const HeaderOrg = "X-Org-Id"

// OrgRequired resolves the organization from the X-Org-Id header and makes
// it available to downstream services through the request context.
func OrgRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderOrg))
		if raw == "" {
			AbortWithError(c, newValidationError("org", "invalid_organization", "missing "+HeaderOrg+" header"))
			return
		}
		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			AbortWithError(c, newValidationError("org", "invalid_organization", "malformed organization id"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), int64(orgID))
		ctx = obscontext.WithOrgID(ctx, orgID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
