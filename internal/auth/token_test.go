package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TokenIssuer", func() {
	var (
		issuer *TokenIssuer
		now    time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		issuer = NewTokenIssuer("test-secret", 7*24*time.Hour)
		issuer.now = func() time.Time { return now }
	})

	It("round-trips the identity", func() {
		token, err := issuer.Issue(Identity{UserID: 1790000000000000001, Email: "a@acme.com", OrganizationID: 42})
		Expect(err).NotTo(HaveOccurred())

		got, err := issuer.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.UserID).To(Equal(int64(1790000000000000001)))
		Expect(got.Email).To(Equal("a@acme.com"))
		Expect(got.OrganizationID).To(Equal(int64(42)))
	})

	It("rejects expired tokens", func() {
		token, err := issuer.Issue(Identity{UserID: 1, Email: "a@acme.com", OrganizationID: 2})
		Expect(err).NotTo(HaveOccurred())

		now = now.Add(7*24*time.Hour + time.Second)
		_, err = issuer.Verify(token)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects tokens signed with another secret", func() {
		other := NewTokenIssuer("other-secret", time.Hour)
		token, err := other.Issue(Identity{UserID: 1, OrganizationID: 2})
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(token)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects the none algorithm", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"id":             "1",
			"organizationId": "2",
			"exp":            now.Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = issuer.Verify(signed)
		Expect(err).To(MatchError(ErrInvalidToken))
	})

	It("rejects garbage", func() {
		_, err := issuer.Verify("not-a-jwt")
		Expect(err).To(MatchError(ErrInvalidToken))
	})
})
