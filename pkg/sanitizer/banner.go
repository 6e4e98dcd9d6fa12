// Package sanitizer cleans operator-supplied banner texts before they are
// rendered as HTML.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	bannerPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Banner texts are short: inline emphasis, line breaks and a link to
		// the privacy policy.
		bannerPolicy = bluemonday.NewPolicy()
		bannerPolicy.AllowStandardURLs()
		bannerPolicy.AllowElements("p", "br", "strong", "b", "em", "i", "span")
		bannerPolicy.AllowAttrs("href").OnElements("a")
		bannerPolicy.RequireNoFollowOnLinks(true)
		bannerPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// BannerHTML keeps inline formatting and links and strips everything else,
// including scripts, event handlers and javascript: URLs.
func BannerHTML(s string) string {
	initPolicies()
	return bannerPolicy.Sanitize(s)
}

// PlainText strips all markup.
func PlainText(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}
