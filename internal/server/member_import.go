package server

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const importTemplateMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadImportTemplate returns the generated template workbook as a
// data-URI payload so clients can offer it as a direct download.
func (s *Server) DownloadImportTemplate(c *gin.Context) {
	workbook, err := s.importSvc.Template(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"file_name": "member_import_template.xlsx",
		"data_uri":  "data:" + importTemplateMIME + ";base64," + base64.StdEncoding.EncodeToString(workbook),
	}})
}

func (s *Server) UploadImport(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_file", "multipart field 'file' is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, newValidationError("file", "invalid_file", "unreadable upload"))
		return
	}
	defer file.Close()

	session, err := s.importSvc.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": session})
}

func (s *Server) GetImportSession(c *gin.Context) {
	session, err := s.importSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) AdvanceImportSession(c *gin.Context) {
	session, err := s.importSvc.Advance(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) DispatchImportSession(c *gin.Context) {
	session, err := s.importSvc.Dispatch(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}
