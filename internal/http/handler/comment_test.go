package handler_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"altis.app/tracker/internal/http/handler"
	"altis.app/tracker/internal/model"
	"altis.app/tracker/internal/service"
)

var _ = Describe("CommentHandler", func() {
	var (
		router *gin.Engine
		svc    *mockCommentService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockCommentService{}
		h := handler.NewCommentHandler(svc)
		comments := router.Group("/comments", asCaller(testIdentity))
		comments.GET("/issue/:issueId", h.ListByIssue)
		comments.POST("", h.Create)
		comments.PUT("/:id", h.Update)
		comments.DELETE("/:id", h.Delete)
	})

	comment := &model.CommentWithAuthor{
		Comment: model.Comment{ID: 5, Content: "hello", IssueID: 42, AuthorID: 10},
		Author:  &model.UserBrief{ID: 10, Name: "Ana", Email: "ana@acme.com"},
	}

	It("lists comments of an issue", func() {
		svc.listFn = func(_ context.Context, orgID, issueID int64) ([]model.CommentWithAuthor, error) {
			Expect(orgID).To(Equal(int64(100)))
			Expect(issueID).To(Equal(int64(42)))
			return []model.CommentWithAuthor{*comment}, nil
		}
		w := doJSON(router, http.MethodGet, "/comments/issue/42", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("returns 404 when listing comments of a foreign issue", func() {
		svc.listFn = func(context.Context, int64, int64) ([]model.CommentWithAuthor, error) {
			return nil, service.ErrIssueNotFound
		}
		expectError(doJSON(router, http.MethodGet, "/comments/issue/42", nil), http.StatusNotFound, "Issue not found")
	})

	Describe("Create", func() {
		It("creates the comment", func() {
			svc.createFn = func(_ context.Context, _, authorID, issueID int64, content string) (*model.CommentWithAuthor, error) {
				Expect(authorID).To(Equal(int64(10)))
				Expect(issueID).To(Equal(int64(42)))
				Expect(content).To(Equal("hello"))
				return comment, nil
			}
			w := doJSON(router, http.MethodPost, "/comments", map[string]any{"content": "hello", "issueId": 42})
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(decode(w)["author"].(map[string]any)["name"]).To(Equal("Ana"))
		})

		It("requires content", func() {
			w := doJSON(router, http.MethodPost, "/comments", map[string]any{"content": " ", "issueId": 42})
			expectError(w, http.StatusBadRequest, "Content is required")
		})

		It("requires an issue id", func() {
			w := doJSON(router, http.MethodPost, "/comments", map[string]any{"content": "hello"})
			expectError(w, http.StatusBadRequest, "Issue ID is required")
		})
	})

	DescribeTable("maps ownership errors on update",
		func(err error, status int, message string) {
			svc.updateFn = func(context.Context, int64, int64, int64, string) (*model.CommentWithAuthor, error) {
				return nil, err
			}
			expectError(doJSON(router, http.MethodPut, "/comments/5", map[string]any{"content": "edit"}), status, message)
		},
		Entry("missing", service.ErrCommentNotFound, http.StatusNotFound, "Comment not found"),
		Entry("not author", service.ErrNotCommentAuthor, http.StatusForbidden, "You can only edit your own comments"),
		Entry("other org", service.ErrAccessDenied, http.StatusForbidden, "Access denied"),
		Entry("blank", service.ErrContentRequired, http.StatusBadRequest, "Content is required"),
		Entry("unexpected", errors.New("db down"), http.StatusInternalServerError, "Error updating comment"),
	)

	It("uses the delete wording for non-authors", func() {
		svc.deleteFn = func(context.Context, int64, int64, int64) error { return service.ErrNotCommentAuthor }
		expectError(doJSON(router, http.MethodDelete, "/comments/5", nil), http.StatusForbidden, "You can only delete your own comments")
	})

	It("confirms deletion", func() {
		w := doJSON(router, http.MethodDelete, "/comments/5", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)["message"]).To(Equal("Comment deleted successfully"))
	})
})
