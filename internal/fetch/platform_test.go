package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://job-boards.greenhouse.io/doordashusa/jobs/7063751", PlatformGreenhouse},
		{"https://boards.greenhouse.io/company/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/company/job-id", PlatformLever},
		{"https://company.wd5.myworkdayjobs.com/en-US/External", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://JOBS.LEVER.CO/acme", PlatformLever},
		{"https://example.com/jobs", PlatformUnknown},
		{"https://notgreenhouse.io/jobs", PlatformUnknown},
		{"https://indeed.com/viewjob", PlatformUnknown},
		{"://bad url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	greenhouse := PlatformContentSelectors(PlatformGreenhouse)
	assert.Equal(t, ".job__description.body", greenhouse[0])
	assert.Contains(t, greenhouse, "main", "generic selectors are appended")

	unknown := PlatformContentSelectors(PlatformUnknown)
	assert.Equal(t, genericContentSelectors, unknown)
}

func TestPlatformNoiseSelectors(t *testing.T) {
	greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Contains(t, greenhouse, "#application-form")
	assert.Contains(t, greenhouse, ".voluntary-self-id")

	unknown := PlatformNoiseSelectors(PlatformUnknown)
	assert.Equal(t, commonNoiseSelectors, unknown)

	// Callers must not be able to grow the shared slice
	unknown[0] = "changed"
	assert.Equal(t, "#application-form", commonNoiseSelectors[0])
}
