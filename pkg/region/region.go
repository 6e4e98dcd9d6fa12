// Package region selects the disclosure variant shown in the consent prompt
// from the visitor's region.
//
// The strictest variant (GDPR) is the fallback for unknown regions and for
// failed geolocation. Only a positively detected US region gets the CCPA text.
package region

import "strings"

// Notice is a disclosure text variant.
type Notice string

const (
	GDPR Notice = "gdpr"
	CCPA Notice = "ccpa"
)

// DescriptionKey returns the translation key of the notice description.
func (n Notice) DescriptionKey() string {
	return "banner.description." + string(n)
}

// Policy maps a region to a notice variant.
type Policy interface {
	Notice(region string, geoErr error) Notice
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(region string, geoErr error) Notice

func (f PolicyFunc) Notice(region string, geoErr error) Notice { return f(region, geoErr) }

// DefaultPolicy applies CCPA to US visitors and GDPR to everyone else.
type DefaultPolicy struct{}

func (DefaultPolicy) Notice(region string, geoErr error) Notice {
	if geoErr != nil {
		return GDPR
	}
	if Normalize(region) == "US" {
		return CCPA
	}
	return GDPR
}

// Normalize upper-cases and trims a region code.
// Subdivision suffixes are dropped: "us-ca" becomes "US".
func Normalize(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if i := strings.IndexAny(region, "-_"); i > 0 {
		region = region[:i]
	}
	return region
}

var (
	_ Policy = DefaultPolicy{}
	_ Policy = PolicyFunc(nil)
)
