package fetch

import (
	"net/url"
	"strings"
)

// Platform is a job board or applicant tracking system.
type Platform string

// Known platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

// platformSpec describes how to recognize a platform and where its posting text lives.
type platformSpec struct {
	platform Platform
	hosts    []string // host suffixes
	content  []string
	noise    []string
}

var platformSpecs = []platformSpec{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".lever-application-form", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"myworkdayjobs.com", "workday.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"[class*='_descriptionText']", "main"},
		noise:    []string{"[class*='_applicationForm']"},
	},
}

// genericContentSelectors are tried for unrecognized boards.
var genericContentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	"#job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
}

// commonNoiseSelectors cover application forms, legal boilerplate and share widgets.
var commonNoiseSelectors = []string{
	"#application-form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".eeo-section",
	".voluntary-disclosure",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-consent",
	".gdpr-notice",
}

// DetectPlatform identifies the job board from a URL's host.
func DetectPlatform(rawURL string) Platform {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())

	for _, board := range platformSpecs {
		for _, suffix := range board.hosts {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return board.platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns where to look for posting text, most specific first.
// Generic selectors are appended for every platform.
func PlatformContentSelectors(platform Platform) []string {
	var selectors []string
	for _, board := range platformSpecs {
		if board.platform == platform {
			selectors = append(selectors, board.content...)
		}
	}
	return append(selectors, genericContentSelectors...)
}

// PlatformNoiseSelectors returns elements to strip before extracting text.
func PlatformNoiseSelectors(platform Platform) []string {
	selectors := append([]string(nil), commonNoiseSelectors...)
	for _, board := range platformSpecs {
		if board.platform == platform {
			selectors = append(selectors, board.noise...)
		}
	}
	return selectors
}
