package region_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/consent/pkg/region"
)

func TestDefaultPolicy(t *testing.T) {
	t.Parallel()

	geoErr := errors.New("lookup timed out")

	testCases := []struct {
		name   string
		region string
		err    error
		want   region.Notice
	}{
		{name: "us", region: "US", want: region.CCPA},
		{name: "lowercase us", region: "us", want: region.CCPA},
		{name: "us subdivision", region: "US-CA", want: region.CCPA},
		{name: "germany", region: "DE", want: region.GDPR},
		{name: "brazil", region: "BR", want: region.GDPR},
		{name: "unknown", region: "ZZ", want: region.GDPR},
		{name: "empty", region: "", want: region.GDPR},
		{name: "geo error", region: "", err: geoErr, want: region.GDPR},
		{name: "geo error wins over us", region: "US", err: geoErr, want: region.GDPR},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, region.DefaultPolicy{}.Notice(tc.region, tc.err))
		})
	}
}

func TestDescriptionKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "banner.description.gdpr", region.GDPR.DescriptionKey())
	require.Equal(t, "banner.description.ccpa", region.CCPA.DescriptionKey())
}

func TestPolicyFunc(t *testing.T) {
	t.Parallel()

	p := region.PolicyFunc(func(string, error) region.Notice { return region.CCPA })
	require.Equal(t, region.CCPA, p.Notice("FR", nil))
}
