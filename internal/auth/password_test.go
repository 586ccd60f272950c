package auth

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("bcryptHasher", func() {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	It("verifies the original password", func() {
		hash, err := hasher.Hash("password123")
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(Equal("password123"))
		Expect(hasher.Compare(hash, "password123")).To(Succeed())
	})

	It("reports a mismatch", func() {
		hash, err := hasher.Hash("password123")
		Expect(err).NotTo(HaveOccurred())
		Expect(hasher.Compare(hash, "wrong")).To(MatchError(ErrPasswordMismatch))
	})

	It("falls back to the default cost", func() {
		h := NewBcryptHasher(0)
		hash, err := h.Hash("pw")
		Expect(err).NotTo(HaveOccurred())
		cost, err := bcrypt.Cost([]byte(hash))
		Expect(err).NotTo(HaveOccurred())
		Expect(cost).To(Equal(DefaultCost))
	})
})
