package testutils

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/pkg/storage"
)

// DescribeDriver registers the behaviour every storage.Driver must have.
// newDriver is called before each test; the driver is closed after it.
func DescribeDriver(newDriver func() storage.Driver) {
	var (
		driver storage.Driver
		ctx    context.Context
		base   time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
		driver = nil
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
		}
	})

	Describe("Put", func() {
		It("rejects nil records", func() {
			_, err := driver.Put(ctx, nil)
			Expect(err).To(MatchError(storage.ErrNilRecord))
		})

		It("inserts once per ID", func() {
			rec := NewTestRecord("t1", "s1", base)

			inserted, err := driver.Put(ctx, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())

			inserted, err = driver.Put(ctx, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())
		})

		It("inserts once per session turn", func() {
			first := NewTestRecord("r1", "s1", base)
			first.TurnID = "1741338000000"
			dup := NewTestRecord("r2", "s1", base.Add(time.Second))
			dup.TurnID = first.TurnID

			inserted, err := driver.Put(ctx, first)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeTrue())

			inserted, err = driver.Put(ctx, dup)
			Expect(err).NotTo(HaveOccurred())
			Expect(inserted).To(BeFalse())

			turns, err := driver.Turns(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(1))
			Expect(turns[0].ID).To(Equal("r1"))
		})

		It("keeps equal turn IDs of different sessions apart", func() {
			a := NewTestRecord("r1", "s1", base)
			a.TurnID = "1741338000000"
			b := NewTestRecord("r2", "s2", base)
			b.TurnID = a.TurnID

			for _, rec := range []*storage.Record{a, b} {
				inserted, err := driver.Put(ctx, rec)
				Expect(err).NotTo(HaveOccurred())
				Expect(inserted).To(BeTrue())
			}

			got, err := driver.Get(ctx, "r2")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.SessionID).To(Equal("s2"))
			Expect(got.TurnID).To(Equal("1741338000000"))
		})
	})

	Describe("Get", func() {
		It("round-trips a record", func() {
			rec := NewTestRecord("t1", "s1", base)
			_, err := driver.Put(ctx, rec)
			Expect(err).NotTo(HaveOccurred())

			got, err := driver.Get(ctx, "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.SessionID).To(Equal("s1"))
			Expect(got.UserText).To(Equal(rec.UserText))
			Expect(got.Reply).To(Equal(rec.Reply))
			Expect(got.Model).To(Equal("test-model"))
			Expect(got.CreatedAt.Equal(base)).To(BeTrue())
		})

		It("returns NotFoundError for unknown IDs", func() {
			_, err := driver.Get(ctx, "missing")
			Expect(err).To(MatchError(storage.NotFoundError{ID: "missing"}))
		})
	})

	Describe("Turns", func() {
		It("returns a session's records oldest first", func() {
			for i, id := range []string{"b", "a", "c"} {
				_, err := driver.Put(ctx, NewTestRecord(id, "s1", base.Add(time.Duration(i)*time.Minute)))
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := driver.Put(ctx, NewTestRecord("x", "s2", base))
			Expect(err).NotTo(HaveOccurred())

			turns, err := driver.Turns(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(HaveLen(3))
			Expect(turns[0].ID).To(Equal("b"))
			Expect(turns[1].ID).To(Equal("a"))
			Expect(turns[2].ID).To(Equal("c"))
		})

		It("returns nothing for unknown sessions", func() {
			turns, err := driver.Turns(ctx, "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(turns).To(BeEmpty())
		})
	})

	Describe("Sessions", func() {
		It("summarizes sessions, most recent first", func() {
			_, err := driver.Put(ctx, NewTestRecord("a1", "old", base))
			Expect(err).NotTo(HaveOccurred())
			_, err = driver.Put(ctx, NewTestRecord("a2", "old", base.Add(time.Minute)))
			Expect(err).NotTo(HaveOccurred())
			_, err = driver.Put(ctx, NewTestRecord("b1", "new", base.Add(time.Hour)))
			Expect(err).NotTo(HaveOccurred())

			sessions, err := driver.Sessions(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(2))

			Expect(sessions[0].ID).To(Equal("new"))
			Expect(sessions[0].Turns).To(Equal(1))

			Expect(sessions[1].ID).To(Equal("old"))
			Expect(sessions[1].Turns).To(Equal(2))
			Expect(sessions[1].ScenarioID).To(Equal("cafe"))
			Expect(sessions[1].StartedAt.Equal(base)).To(BeTrue())
			Expect(sessions[1].UpdatedAt.Equal(base.Add(time.Minute))).To(BeTrue())
		})
	})
}
