package document

import (
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newDoc := func(id, ownerID, title string) *Document {
		return &Document{
			ID:              id,
			OwnerID:         ownerID,
			SourceImageName: id + ".jpg",
			ContentType:     "image/jpeg",
			Fields:          Fields{"title": title},
			CreatedAt:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}
	}

	Describe("SaveDocument and GetDocument", func() {
		var (
			doc *Document
			err error
		)

		BeforeEach(func() {
			doc = newDoc("doc-1", "owner-1", "Test Invoice")
		})

		JustBeforeEach(func() {
			err = db.SaveDocument(doc)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should round-trip every field", func() {
				got, getErr := db.GetDocument("doc-1")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(got.ID).To(Equal(doc.ID))
				Expect(got.OwnerID).To(Equal(doc.OwnerID))
				Expect(got.SourceImageName).To(Equal(doc.SourceImageName))
				Expect(got.Fields["title"]).To(Equal("Test Invoice"))
				Expect(got.CreatedAt).To(BeTemporally("==", doc.CreatedAt))
			})
		})

		When("getting a missing document", func() {
			It("should return a not-found error", func() {
				_, getErr := db.GetDocument("nope")
				Expect(getErr).To(HaveOccurred())
				Expect(errors.Is(getErr, ErrNotFound)).To(BeTrue())
			})
		})
	})

	Describe("ListByOwner", func() {
		BeforeEach(func() {
			Expect(db.SaveDocument(newDoc("doc-1", "owner-1", "First"))).To(Succeed())
			Expect(db.SaveDocument(newDoc("doc-2", "owner-2", "Other"))).To(Succeed())
			Expect(db.SaveDocument(newDoc("doc-3", "owner-1", "Second"))).To(Succeed())
		})

		It("should return only the owner's documents", func() {
			docs, err := db.ListByOwner("owner-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(2))
			for _, doc := range docs {
				Expect(doc.OwnerID).To(Equal("owner-1"))
			}
		})

		It("should return an empty slice for an owner with no documents", func() {
			docs, err := db.ListByOwner("owner-3")
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).NotTo(BeNil())
			Expect(docs).To(BeEmpty())
		})

		It("should return the same order on repeated calls", func() {
			first, err := db.ListByOwner("owner-1")
			Expect(err).NotTo(HaveOccurred())
			second, err := db.ListByOwner("owner-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(HaveLen(len(first)))
			for i := range first {
				Expect(second[i].ID).To(Equal(first[i].ID))
			}
		})
	})

	Describe("DeleteDocuments", func() {
		BeforeEach(func() {
			Expect(db.SaveDocument(newDoc("doc-1", "owner-1", "First"))).To(Succeed())
			Expect(db.SaveDocument(newDoc("doc-2", "owner-1", "Second"))).To(Succeed())
		})

		When("all ids exist", func() {
			It("should delete them and return the count", func() {
				count, err := db.DeleteDocuments([]string{"doc-1", "doc-2"})
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(Equal(2))

				_, err = db.GetDocument("doc-1")
				Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
			})
		})

		When("some ids are missing", func() {
			It("should skip them and count only real deletions", func() {
				count, err := db.DeleteDocuments([]string{"doc-1", "missing"})
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(Equal(1))
			})
		})

		When("no ids are given", func() {
			It("should delete nothing", func() {
				count, err := db.DeleteDocuments(nil)
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(Equal(0))
			})
		})
	})

	Describe("SaveUser and GetUser", func() {
		It("should round-trip a user", func() {
			user := &User{ID: "user-1", Name: "Amina", CreatedAt: time.Now()}
			Expect(db.SaveUser(user)).To(Succeed())

			got, err := db.GetUser("user-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("Amina"))
		})

		It("should return an owner-not-found error for a missing user", func() {
			_, err := db.GetUser("ghost")
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, ErrOwnerNotFound)).To(BeTrue())
		})
	})
})
