package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"altis.app/tracker/internal/auth"
	"altis.app/tracker/internal/http/middleware"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/service"
)

type mockAuthService struct {
	registerFn func(ctx context.Context, in service.RegisterInput) (*service.Session, error)
	loginFn    func(ctx context.Context, email, password string) (*service.Session, error)
	meFn       func(ctx context.Context, userID int64) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.Session, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, in)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email, password)
	}
	return nil, nil
}

func (m *mockAuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	if m.meFn != nil {
		return m.meFn(ctx, userID)
	}
	return nil, nil
}

type mockUserService struct {
	listFn func(ctx context.Context, orgID int64) ([]model.User, error)
}

func (m *mockUserService) ListByOrganization(ctx context.Context, orgID int64) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, orgID)
	}
	return nil, nil
}

type mockOrganizationService struct {
	getFn    func(ctx context.Context, orgID int64) (*model.Organization, error)
	createFn func(ctx context.Context, name string, slug *string) (*model.Organization, error)
}

func (m *mockOrganizationService) Get(ctx context.Context, orgID int64) (*model.Organization, error) {
	if m.getFn != nil {
		return m.getFn(ctx, orgID)
	}
	return nil, nil
}

func (m *mockOrganizationService) Create(ctx context.Context, name string, slug *string) (*model.Organization, error) {
	if m.createFn != nil {
		return m.createFn(ctx, name, slug)
	}
	return nil, nil
}

type mockIssueService struct {
	listFn   func(ctx context.Context, filter model.IssueFilter) (*model.IssuePage, error)
	getFn    func(ctx context.Context, orgID, issueID int64) (*model.IssueDetail, error)
	createFn func(ctx context.Context, orgID, actorID int64, in service.CreateIssueInput) (*model.IssueSummary, error)
	updateFn func(ctx context.Context, orgID, actorID, issueID int64, in service.UpdateIssueInput) (*model.IssueSummary, error)
	deleteFn func(ctx context.Context, orgID, issueID int64) error
}

func (m *mockIssueService) List(ctx context.Context, filter model.IssueFilter) (*model.IssuePage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return &model.IssuePage{}, nil
}

func (m *mockIssueService) Get(ctx context.Context, orgID, issueID int64) (*model.IssueDetail, error) {
	if m.getFn != nil {
		return m.getFn(ctx, orgID, issueID)
	}
	return nil, service.ErrIssueNotFound
}

func (m *mockIssueService) Create(ctx context.Context, orgID, actorID int64, in service.CreateIssueInput) (*model.IssueSummary, error) {
	if m.createFn != nil {
		return m.createFn(ctx, orgID, actorID, in)
	}
	return nil, nil
}

func (m *mockIssueService) Update(ctx context.Context, orgID, actorID, issueID int64, in service.UpdateIssueInput) (*model.IssueSummary, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, orgID, actorID, issueID, in)
	}
	return nil, nil
}

func (m *mockIssueService) Delete(ctx context.Context, orgID, issueID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, orgID, issueID)
	}
	return nil
}

type mockCommentService struct {
	listFn   func(ctx context.Context, orgID, issueID int64) ([]model.CommentWithAuthor, error)
	createFn func(ctx context.Context, orgID, authorID, issueID int64, content string) (*model.CommentWithAuthor, error)
	updateFn func(ctx context.Context, orgID, actorID, commentID int64, content string) (*model.CommentWithAuthor, error)
	deleteFn func(ctx context.Context, orgID, actorID, commentID int64) error
}

func (m *mockCommentService) ListByIssue(ctx context.Context, orgID, issueID int64) ([]model.CommentWithAuthor, error) {
	if m.listFn != nil {
		return m.listFn(ctx, orgID, issueID)
	}
	return nil, nil
}

func (m *mockCommentService) Create(ctx context.Context, orgID, authorID, issueID int64, content string) (*model.CommentWithAuthor, error) {
	if m.createFn != nil {
		return m.createFn(ctx, orgID, authorID, issueID, content)
	}
	return nil, nil
}

func (m *mockCommentService) Update(ctx context.Context, orgID, actorID, commentID int64, content string) (*model.CommentWithAuthor, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, orgID, actorID, commentID, content)
	}
	return nil, nil
}

func (m *mockCommentService) Delete(ctx context.Context, orgID, actorID, commentID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, orgID, actorID, commentID)
	}
	return nil
}

var testIdentity = auth.Identity{UserID: 10, Email: "ana@acme.com", OrganizationID: 100}

// asCaller stands in for middleware.Authenticate.
func asCaller(identity auth.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetIdentity(c, identity)
		c.Next()
	}
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
	return resp
}

func expectError(w *httptest.ResponseRecorder, status int, message string) {
	Expect(w.Code).To(Equal(status))
	resp := decode(w)
	Expect(resp["error"]).To(Equal(http.StatusText(status)))
	Expect(resp["message"]).To(Equal(message))
}
