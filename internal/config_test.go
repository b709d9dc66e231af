package internal_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

var _ = Describe("Config", func() {
	var cfg internal.Config

	BeforeEach(func() {
		cfg = internal.Config{
			API:     internal.APIConfig{BaseURL: "http://localhost:8000"},
			Session: internal.SessionConfig{Secret: "0123456789abcdef0123456789abcdef"},
		}
		cfg.ApplyDefaults()
	})

	It("accepts a sparse config once defaults are applied", func() {
		Expect(cfg.Validate()).To(Succeed())
		Expect(cfg.Session.ScreenIdleTTL).To(Equal(30 * time.Minute))
	})

	DescribeTable("rejects a screen idle ttl the sweeper cannot tick on",
		func(ttl time.Duration) {
			cfg.Session.ScreenIdleTTL = ttl

			err := cfg.Validate()

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("screen_idle_ttl"))
		},
		Entry("negative", -time.Minute),
		Entry("sub-second", 500*time.Millisecond),
		Entry("one nanosecond", time.Nanosecond),
	)

	It("accepts a one second screen idle ttl", func() {
		cfg.Session.ScreenIdleTTL = time.Second

		Expect(cfg.Validate()).To(Succeed())
	})

	It("requires a long enough session secret", func() {
		cfg.Session.Secret = "short"

		Expect(cfg.Validate()).To(MatchError(ContainSubstring("session secret")))
	})
})
