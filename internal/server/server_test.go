package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	allowancedomain "github.com/leavehub/leavehub/internal/allowancetype/domain"
	"github.com/leavehub/leavehub/internal/config"
	departmentdomain "github.com/leavehub/leavehub/internal/department/domain"
	holidaydomain "github.com/leavehub/leavehub/internal/holiday/domain"
	invitationdomain "github.com/leavehub/leavehub/internal/invitation/domain"
	memberdomain "github.com/leavehub/leavehub/internal/member/domain"
	importdomain "github.com/leavehub/leavehub/internal/memberimport/domain"
	organizationdomain "github.com/leavehub/leavehub/internal/organization/domain"
	subscriptiondomain "github.com/leavehub/leavehub/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs. Each returns its configured error first, otherwise a zero value.

type stubOrganizations struct{ err error }

func (s *stubOrganizations) Create(ctx context.Context, req organizationdomain.CreateOrganizationRequest) (organizationdomain.Organization, error) {
	return organizationdomain.Organization{Name: req.Name}, s.err
}
func (s *stubOrganizations) GetByID(ctx context.Context, id string) (organizationdomain.Organization, error) {
	return organizationdomain.Organization{}, s.err
}

type stubDepartments struct{ err error }

func (s *stubDepartments) Create(ctx context.Context, req departmentdomain.CreateDepartmentRequest) (departmentdomain.Department, error) {
	return departmentdomain.Department{Name: req.Name}, s.err
}
func (s *stubDepartments) List(ctx context.Context) ([]departmentdomain.Department, error) {
	return nil, s.err
}

type stubHolidays struct{ err error }

func (s *stubHolidays) Create(ctx context.Context, req holidaydomain.CreatePublicHolidayRequest) (holidaydomain.PublicHoliday, error) {
	return holidaydomain.PublicHoliday{Name: req.Name}, s.err
}
func (s *stubHolidays) List(ctx context.Context) ([]holidaydomain.PublicHoliday, error) {
	return nil, s.err
}

type stubAllowanceTypes struct{ err error }

func (s *stubAllowanceTypes) Create(ctx context.Context, req allowancedomain.CreateAllowanceTypeRequest) (allowancedomain.AllowanceType, error) {
	return allowancedomain.AllowanceType{Name: req.Name}, s.err
}
func (s *stubAllowanceTypes) List(ctx context.Context) ([]allowancedomain.AllowanceType, error) {
	return nil, s.err
}

type stubMembers struct{ err error }

func (s *stubMembers) Create(ctx context.Context, req memberdomain.CreateMemberRequest) (memberdomain.Member, error) {
	return memberdomain.Member{}, s.err
}
func (s *stubMembers) List(ctx context.Context, req memberdomain.ListMembersRequest) (memberdomain.ListMembersResponse, error) {
	return memberdomain.ListMembersResponse{}, s.err
}
func (s *stubMembers) ExistingEmails(ctx context.Context) (map[string]struct{}, error) {
	return nil, s.err
}
func (s *stubMembers) BulkArchive(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{Affected: int64(len(req.MemberIDs))}, s.err
}
func (s *stubMembers) BulkUnarchive(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, s.err
}
func (s *stubMembers) BulkActivate(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, s.err
}
func (s *stubMembers) BulkDelete(ctx context.Context, req memberdomain.BulkActionRequest) (memberdomain.BulkActionResult, error) {
	return memberdomain.BulkActionResult{}, s.err
}
func (s *stubMembers) InvalidateListCache(ctx context.Context) {}

type stubInvitations struct{ err error }

func (s *stubInvitations) Invite(ctx context.Context, req invitationdomain.InviteRequest) (invitationdomain.InviteResult, error) {
	return invitationdomain.InviteResult{}, s.err
}
func (s *stubInvitations) Verify(ctx context.Context, req invitationdomain.VerifyRequest) error {
	return s.err
}

type stubSubscriptions struct{ err error }

func (s *stubSubscriptions) Get(ctx context.Context) (subscriptiondomain.SubscriptionView, error) {
	return subscriptiondomain.SubscriptionView{}, s.err
}
func (s *stubSubscriptions) Upgrade(ctx context.Context, req subscriptiondomain.UpgradeRequest) (subscriptiondomain.CheckoutSession, error) {
	return subscriptiondomain.CheckoutSession{}, s.err
}

type stubImports struct {
	err      error
	fileName string
	fileSize int
	session  *importdomain.ImportSession
}

func (s *stubImports) Template(ctx context.Context) ([]byte, error) {
	return []byte("workbook"), s.err
}
func (s *stubImports) Upload(ctx context.Context, fileName string, file io.Reader) (*importdomain.ImportSession, error) {
	s.fileName = fileName
	raw, _ := io.ReadAll(file)
	s.fileSize = len(raw)
	return s.session, s.err
}
func (s *stubImports) Get(ctx context.Context, sessionID string) (*importdomain.ImportSession, error) {
	return s.session, s.err
}
func (s *stubImports) Advance(ctx context.Context, sessionID string) (*importdomain.ImportSession, error) {
	return s.session, s.err
}
func (s *stubImports) Dispatch(ctx context.Context, sessionID string) (*importdomain.ImportSession, error) {
	return s.session, s.err
}

type testStack struct {
	engine        *gin.Engine
	organizations *stubOrganizations
	departments   *stubDepartments
	holidays      *stubHolidays
	allowances    *stubAllowanceTypes
	members       *stubMembers
	invitations   *stubInvitations
	subscriptions *stubSubscriptions
	imports       *stubImports
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stack := &testStack{
		engine:        gin.New(),
		organizations: &stubOrganizations{},
		departments:   &stubDepartments{},
		holidays:      &stubHolidays{},
		allowances:    &stubAllowanceTypes{},
		members:       &stubMembers{},
		invitations:   &stubInvitations{},
		subscriptions: &stubSubscriptions{},
		imports:       &stubImports{},
	}
	stack.engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:             stack.engine,
		Cfg:             config.Config{},
		OrganizationSvc: stack.organizations,
		DepartmentSvc:   stack.departments,
		HolidaySvc:      stack.holidays,
		AllowanceSvc:    stack.allowances,
		MemberSvc:       stack.members,
		InvitationSvc:   stack.invitations,
		SubscriptionSvc: stack.subscriptions,
		ImportSvc:       stack.imports,
	})

	return stack
}

func (s *testStack) do(t *testing.T, method, path, orgID string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if orgID != "" {
		req.Header.Set(HeaderOrg, orgID)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestOrgHeaderRequired(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodGet, "/api/departments", "", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "validation_error", body.Error.Type)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "invalid_organization", body.Error.Errors[0].Code)
}

func TestOrgHeaderMalformed(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodGet, "/api/departments", "not-a-snowflake", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_organization", decodeError(t, rec).Error.Errors[0].Code)
}

func TestDomainErrorMapsToValidationShape(t *testing.T) {
	stack := newTestStack(t)
	stack.departments.err = departmentdomain.ErrInvalidName

	payload := strings.NewReader(`{"name":""}`)
	rec := stack.do(t, http.MethodPost, "/api/departments", "1234567890", payload, "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "validation_error", body.Error.Type)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "invalid_department_name", body.Error.Errors[0].Code)
	assert.Equal(t, "department_name", body.Error.Errors[0].Field)
}

func TestConflictErrorMapsTo409(t *testing.T) {
	stack := newTestStack(t)
	stack.departments.err = departmentdomain.ErrDepartmentExists

	payload := strings.NewReader(`{"name":"Engineering"}`)
	rec := stack.do(t, http.MethodPost, "/api/departments", "1234567890", payload, "application/json")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeError(t, rec).Error.Type)
}

func TestImportSessionNotFoundMapsTo404(t *testing.T) {
	stack := newTestStack(t)
	stack.imports.err = importdomain.ErrSessionNotFound

	rec := stack.do(t, http.MethodGet, "/api/imports/nope", "1234567890", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Type)
}

func TestUploadImportRoundTrip(t *testing.T) {
	stack := newTestStack(t)
	stack.imports.session = &importdomain.ImportSession{ID: "sess-1", FileName: "members.xlsx"}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "members.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("spreadsheet bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	rec := stack.do(t, http.MethodPost, "/api/imports", "1234567890", &buf, writer.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "members.xlsx", stack.imports.fileName)
	assert.Equal(t, len("spreadsheet bytes"), stack.imports.fileSize)

	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sess-1", body.Data.ID)
}

func TestUploadImportMissingFile(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodPost, "/api/imports", "1234567890", strings.NewReader("not multipart"), "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_file", decodeError(t, rec).Error.Errors[0].Code)
}

func TestDownloadImportTemplate(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodGet, "/api/imports/template", "1234567890", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			FileName string `json:"file_name"`
			DataURI  string `json:"data_uri"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "member_import_template.xlsx", body.Data.FileName)
	assert.True(t, strings.HasPrefix(body.Data.DataURI, "data:"+importTemplateMIME+";base64,"))
}

func TestBulkActionRejectsMalformedBody(t *testing.T) {
	stack := newTestStack(t)

	rec := stack.do(t, http.MethodPost, "/api/members/bulk/archive", "1234567890", strings.NewReader("{"), "application/json")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error.Errors[0].Code)
}
