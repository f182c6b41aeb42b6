package document

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExportPDF", func() {
	var (
		db      *mockDB
		service *Service
		buf     *bytes.Buffer
		err     error
	)

	BeforeEach(func() {
		db = newMockDB()
		db.users["owner-1"] = &User{ID: "owner-1", Name: "Amina"}
		buf = &bytes.Buffer{}
		service = NewServiceWithDeps(db, &mockExtractor{}, newMockStorage(),
			&fixedIDGenerator{},
			&fixedTimeSource{now: time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)},
		)
	})

	JustBeforeEach(func() {
		err = service.ExportPDF("owner-1", buf)
	})

	When("the owner has two documents", func() {
		BeforeEach(func() {
			db.documents["doc-1"] = &Document{
				ID:      "doc-1",
				OwnerID: "owner-1",
				Fields:  Fields{"title": "Invoice", "amount": "42"},
			}
			db.documents["doc-2"] = &Document{
				ID:      "doc-2",
				OwnerID: "owner-1",
				Fields:  Fields{"title": "Contract", "party": "Acme"},
			}
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("should write a PDF document", func() {
			Expect(buf.Bytes()[:5]).To(Equal([]byte("%PDF-")))
		})

		It("should break pages between documents but not after the last", func() {
			// header shares the first page with the first document, so
			// two documents produce exactly two pages
			Expect(buf.String()).To(ContainSubstring("/Count 2"))
		})
	})

	When("the owner has no documents", func() {
		It("should return a not-found error", func() {
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		})

		It("should write nothing", func() {
			Expect(buf.Len()).To(BeZero())
		})
	})

	When("the owner does not exist", func() {
		JustBeforeEach(func() {
			err = service.ExportPDF("ghost", buf)
		})

		It("should return an owner-not-found error", func() {
			Expect(errors.Is(err, ErrOwnerNotFound)).To(BeTrue())
		})
	})
})

var _ = Describe("fieldOrder", func() {
	It("should put title first and sort the rest", func() {
		fields := Fields{"zebra": "z", "title": "T", "alpha": "a"}
		Expect(fieldOrder(fields)).To(Equal([]string{"title", "alpha", "zebra"}))
	})

	It("should never render reserved keys", func() {
		fields := Fields{"title": "T", "id": "x", "owner_id": "y", "__version": 1}
		Expect(fieldOrder(fields)).To(Equal([]string{"title"}))
	})
})
