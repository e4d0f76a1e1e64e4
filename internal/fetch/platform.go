package fetch

import (
	"net/url"
	"strings"
)

// Platform is a known job board
type Platform string

// Known job boards
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description", ".job-description__content", "#content", ".job-post-container"},
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
		content:  []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	{
		platform: PlatformAshby,
		hosts:    []string{"ashbyhq.com"},
		content:  []string{"._descriptionText", "[class*='descriptionText']", "main"},
		noise:    []string{"[class*='applicationForm']"},
	},
}

// jobPostingContent is tried on boards without specific selectors
var jobPostingContent = []string{
	".job-description",
	"#job-description",
	".job-content",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	"#content",
	".content",
}

// commonNoise is removed from every job page
var commonNoise = []string{
	"form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".voluntary-disclosure",
	".legal-disclosure",
	".social-share",
	".share-buttons",
	".cookie-banner",
	".cookie-consent",
}

// DetectPlatform identifies the job board from the URL host
func DetectPlatform(rawURL string) Platform {
	if r := lookupPlatform(rawURL); r != nil {
		return r.platform
	}
	return PlatformUnknown
}

// ContentSelectors returns the selectors locating the posting body on a platform
func ContentSelectors(p Platform) []string {
	for _, r := range platformRules {
		if r.platform == p {
			return append(append([]string{}, r.content...), jobPostingContent...)
		}
	}
	return append([]string{}, jobPostingContent...)
}

// NoiseSelectors returns the selectors removed from pages of a platform
func NoiseSelectors(p Platform) []string {
	noise := append([]string{}, commonNoise...)
	for _, r := range platformRules {
		if r.platform == p {
			noise = append(noise, r.noise...)
		}
	}
	return noise
}

func lookupPlatform(rawURL string) *platformRule {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	host := strings.ToLower(u.Hostname())
	for i := range platformRules {
		for _, h := range platformRules[i].hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return &platformRules[i]
			}
		}
	}
	return nil
}
