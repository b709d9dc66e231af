package listdetail_test

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal/listdetail"
)

func TestListDetail(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ListDetail Suite")
}

type row struct {
	ID   int64
	Name string
}

var _ = Describe("Collection", func() {
	var c *listdetail.Collection[int64, row]

	BeforeEach(func() {
		c = listdetail.NewCollection(func(r row) int64 { return r.ID })
		c.Replace([]row{{1, "a"}, {2, "b"}, {3, "c"}})
	})

	It("splices an existing item in place", func() {
		Expect(c.Upsert(row{2, "B"})).To(BeTrue())
		Expect(c.Items()).To(Equal([]row{{1, "a"}, {2, "B"}, {3, "c"}}))
	})

	It("appends a new item", func() {
		Expect(c.Upsert(row{4, "d"})).To(BeFalse())
		Expect(c.Len()).To(Equal(4))
		got, ok := c.Get(4)
		Expect(ok).To(BeTrue())
		Expect(got.Name).To(Equal("d"))
	})

	It("removes by key", func() {
		Expect(c.Remove(2)).To(BeTrue())
		Expect(c.Remove(2)).To(BeFalse())
		Expect(c.Items()).To(Equal([]row{{1, "a"}, {3, "c"}}))
	})

	It("hands out copies", func() {
		items := c.Items()
		items[0].Name = "changed"
		got, _ := c.Get(1)
		Expect(got.Name).To(Equal("a"))
	})
})

var _ = Describe("Selection", func() {
	var sel *listdetail.Selection[int64]

	BeforeEach(func() {
		sel = &listdetail.Selection[int64]{}
	})

	It("makes an older ticket stale and cancels it", func() {
		first := sel.Begin(context.Background(), 1)
		second := sel.Begin(context.Background(), 2)

		Expect(sel.Current(first)).To(BeFalse())
		Expect(first.Context().Err()).To(MatchError(context.Canceled))
		Expect(sel.Current(second)).To(BeTrue())

		key, ok := sel.Selected()
		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(int64(2)))
	})

	It("stales every ticket on clear", func() {
		t := sel.Begin(context.Background(), 7)
		sel.Clear()

		Expect(sel.Current(t)).To(BeFalse())
		Expect(t.Context().Err()).To(HaveOccurred())
		_, ok := sel.Selected()
		Expect(ok).To(BeFalse())
	})

	It("keeps a re-selection of the same key distinct", func() {
		first := sel.Begin(context.Background(), 7)
		second := sel.Begin(context.Background(), 7)

		Expect(sel.Current(first)).To(BeFalse())
		Expect(sel.Current(second)).To(BeTrue())
	})

	It("is safe under concurrent selections", func() {
		var wg sync.WaitGroup
		for i := int64(0); i < 50; i++ {
			wg.Add(1)
			go func(k int64) {
				defer wg.Done()
				t := sel.Begin(context.Background(), k)
				defer t.Done()
				_ = sel.Current(t)
			}(i)
		}
		wg.Wait()
		_, ok := sel.Selected()
		Expect(ok).To(BeTrue())
	})
})

type closingState struct {
	closed bool
}

func (s *closingState) Close() { s.closed = true }

var _ = Describe("Registry", func() {
	var reg *listdetail.Registry[*closingState]

	BeforeEach(func() {
		reg = listdetail.NewRegistry(func() *closingState { return &closingState{} })
	})

	It("returns the same state for the same id", func() {
		Expect(reg.Get("a")).To(BeIdenticalTo(reg.Get("a")))
		Expect(reg.Get("a")).NotTo(BeIdenticalTo(reg.Get("b")))
	})

	It("closes dropped state", func() {
		s := reg.Get("a")
		reg.Drop("a")

		Expect(s.closed).To(BeTrue())
		Expect(reg.Len()).To(BeZero())
	})

	It("sweeps idle entries only", func() {
		s := reg.Get("a")

		Expect(reg.Sweep(time.Hour)).To(BeZero())
		Expect(reg.Sweep(-time.Second)).To(Equal(1))
		Expect(s.closed).To(BeTrue())
	})

	It("stops running when the context ends", func() {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			reg.Run(ctx, time.Millisecond, time.Hour)
			close(done)
		}()
		cancel()
		Eventually(done).Should(BeClosed())
	})
})
