package view_test

import (
	"bytes"
	"net/url"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/view"
)

func TestView(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "View Suite")
}

var _ = Describe("Renderer", func() {
	var r *view.Renderer

	BeforeEach(func() {
		var err error
		r, err = view.NewRenderer()
		Expect(err).NotTo(HaveOccurred())
	})

	It("renders the shell when there is a menu", func() {
		var buf bytes.Buffer
		err := r.Render(&buf, view.PagePlaceholder, view.Page{
			Nav: view.NavModel{
				Title: "IV Forum",
				Items: []view.NavItem{
					{Key: "dashboard", Label: "Dashboard", Path: "/"},
					{Key: "leave", Label: "Leave", Expanded: true, Children: []view.NavItem{
						{Key: "leave-requests", Label: "Leave Requests", Path: "/leaves/request", Active: true},
					}},
				},
			},
			Data: view.Placeholder{Heading: "IV Forum", Body: "Coming soon."},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring(`href="/nav/leave-requests" class="active"`))
		Expect(buf.String()).To(ContainSubstring("Log Out"))
		Expect(buf.String()).To(ContainSubstring("Coming soon."))
	})

	It("leaves the shell out without a menu", func() {
		var buf bytes.Buffer
		err := r.Render(&buf, view.PageLogin, view.Page{Title: "Sign in", Data: view.NewForm(nil)})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).NotTo(ContainSubstring("Log Out"))
		Expect(buf.String()).To(ContainSubstring(`name="username"`))
	})

	It("escapes flash text", func() {
		var buf bytes.Buffer
		err := r.Render(&buf, view.PageError, view.Page{
			Flash: &view.Flash{Kind: view.FlashError, Message: "<script>alert(1)</script>"},
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).NotTo(ContainSubstring("<script>alert(1)</script>"))
		Expect(buf.String()).To(ContainSubstring("&lt;script&gt;"))
	})

	It("refuses unknown pages", func() {
		Expect(r.Render(&bytes.Buffer{}, "nope.html", view.Page{})).NotTo(Succeed())
	})
})

var _ = Describe("Form", func() {
	It("puts field errors next to their fields", func() {
		f := view.NewForm(url.Values{"email": {"  a@example.com "}})
		f.Fail(internal.NewValidationFieldError("password", "Password is required.", internal.ErrCodeRequiredField))

		Expect(f.Value("email")).To(Equal("a@example.com"))
		Expect(f.Error("password")).To(Equal("Password is required."))
		Expect(f.Message).To(BeEmpty())
		Expect(f.HasErrors()).To(BeTrue())
	})

	It("uses the message of any other error", func() {
		f := view.NewForm(nil)
		f.Fail(internal.NewRequestFailedError("Email already registered", 400))

		Expect(f.Message).To(Equal("Email already registered"))
		Expect(f.Errors).To(BeEmpty())
	})
})
