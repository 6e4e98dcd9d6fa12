package gtag

import "github.com/dmitrymomot/consent/pkg/record"

// Value is a consent signal value.
type Value string

const (
	Granted Value = "granted"
	Denied  Value = "denied"
)

func valueOf(enabled bool) Value {
	if enabled {
		return Granted
	}
	return Denied
}

// Status is the external consent signal state.
type Status struct {
	AdStorage         Value `json:"ad_storage"`
	AnalyticsStorage  Value `json:"analytics_storage"`
	AdUserData        Value `json:"ad_user_data"`
	AdPersonalization Value `json:"ad_personalization"`
}

// StatusFor derives the signal state from category decisions.
func StatusFor(c record.Categories) Status {
	return Status{
		AdStorage:         valueOf(c.Marketing),
		AnalyticsStorage:  valueOf(c.Analytics),
		AdUserData:        valueOf(c.Marketing),
		AdPersonalization: valueOf(c.Marketing),
	}
}

// DeniedStatus is the all-denied default announcement.
func DeniedStatus() Status {
	return StatusFor(record.Defaults())
}

// Map returns the status as the argument object passed to gtag.
func (s Status) Map() map[string]any {
	return map[string]any{
		"ad_storage":         string(s.AdStorage),
		"analytics_storage":  string(s.AnalyticsStorage),
		"ad_user_data":       string(s.AdUserData),
		"ad_personalization": string(s.AdPersonalization),
	}
}
