package id_test

import (
	"strconv"

	"assessmate.app/casenote/common/id"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Snowflake IDs", func() {
	BeforeEach(func() {
		Expect(id.Init(7)).To(Succeed())
	})

	It("generates increasing ids", func() {
		a := id.New()
		b := id.New()
		Expect(b).To(BeNumerically(">", a))
	})

	It("formats ids in base 10", func() {
		s := id.NewString()
		parsed, err := strconv.ParseInt(s, 10, 64)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(BeNumerically(">", 0))
	})
})
