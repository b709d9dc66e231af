package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal/core/calendar"
)

func TestCalendar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Calendar Suite")
}

var _ = Describe("Date", func() {
	Describe("display", func() {
		var saved *time.Location

		BeforeEach(func() {
			saved = time.Local
		})

		AfterEach(func() {
			time.Local = saved
		})

		DescribeTable("keeps the calendar day whatever the server timezone",
			func(zone string) {
				loc, err := time.LoadLocation(zone)
				if err != nil {
					Skip("timezone database unavailable: " + zone)
				}
				time.Local = loc

				var d calendar.Date
				Expect(json.Unmarshal([]byte(`"2024-07-01"`), &d)).To(Succeed())

				Expect(d.Display()).To(Equal("Jul 1, 2024"))
				Expect(d.String()).To(Equal("2024-07-01"))
			},
			Entry("UTC", "UTC"),
			Entry("west of UTC", "America/Los_Angeles"),
			Entry("east of UTC", "Asia/Tokyo"),
			Entry("far east of UTC", "Pacific/Kiritimati"),
		)

		It("keeps only the day of a datetime", func() {
			var d calendar.Date
			Expect(json.Unmarshal([]byte(`"2024-07-01T23:30:00-08:00"`), &d)).To(Succeed())
			Expect(d.String()).To(Equal("2024-07-01"))
		})
	})

	Describe("JSON", func() {
		It("writes YYYY-MM-DD", func() {
			data, err := json.Marshal(calendar.NewDate(2024, 2, 29))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`"2024-02-29"`))
		})

		It("writes null for the zero date", func() {
			data, err := json.Marshal(calendar.Date{})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("null"))
		})

		It("rejects other layouts", func() {
			var d calendar.Date
			Expect(json.Unmarshal([]byte(`"07/01/2024"`), &d)).NotTo(Succeed())
		})
	})

	DescribeTable("DaysThrough",
		func(start, end calendar.Date, want int) {
			Expect(start.DaysThrough(end)).To(Equal(want))
		},
		Entry("same day", calendar.NewDate(2024, 7, 1), calendar.NewDate(2024, 7, 1), 1),
		Entry("across a month", calendar.NewDate(2024, 7, 30), calendar.NewDate(2024, 8, 2), 4),
		Entry("reversed", calendar.NewDate(2024, 7, 3), calendar.NewDate(2024, 7, 1), 0),
	)

	DescribeTable("Overlaps",
		func(from, to calendar.Date, want bool) {
			start, end := calendar.NewDate(2024, 7, 1), calendar.NewDate(2024, 7, 3)
			Expect(calendar.Overlaps(start, end, from, to)).To(Equal(want))
		},
		Entry("open range", calendar.Date{}, calendar.Date{}, true),
		Entry("touching the end", calendar.NewDate(2024, 7, 3), calendar.Date{}, true),
		Entry("after", calendar.NewDate(2024, 7, 4), calendar.Date{}, false),
		Entry("before", calendar.Date{}, calendar.NewDate(2024, 6, 30), false),
	)
})
