// Package device turns request user agents into short labels for login logs.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

const unknown = "Unknown"

// Info is what login logging records about the caller's client.
type Info struct {
	Label  string
	Mobile bool
	Bot    bool
}

// ParseUserAgent returns "<Browser> on <OS>", or "Unknown Device" for an empty agent.
func ParseUserAgent(userAgent string) string {
	return Describe(userAgent).Label
}

func Describe(userAgent string) Info {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return Info{Label: unknown + " Device"}
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = unknown
	}
	os := strings.TrimSpace(ua.OS())
	if os == "" {
		os = strings.TrimSpace(ua.Platform())
	}
	if os == "" {
		os = unknown
	}

	return Info{
		Label:  strings.Join(strings.Fields(browser+" on "+os), " "),
		Mobile: ua.Mobile(),
		Bot:    ua.Bot(),
	}
}
