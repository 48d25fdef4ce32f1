package session

import (
	"github.com/mssola/useragent"
)

// Profile carries the page and device facts reported at registration and
// used to seed capture capabilities.
type Profile struct {
	URL           string
	UserAgent     string
	AppName       string
	Language      string
	CookieEnabled bool
	Product       string
	Vendor        string

	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string

	HasTouch bool
	HasMouse bool
}

// NewProfile derives a profile from the page URL, user agent string and
// preferred language. Browsers report app_name "Netscape" and product
// "Gecko" regardless of engine, so those are fixed.
func NewProfile(pageURL, userAgentString, language string) Profile {
	if language == "" {
		language = "en-US"
	}

	p := Profile{
		URL:           pageURL,
		UserAgent:     userAgentString,
		AppName:       "Netscape",
		Language:      language,
		CookieEnabled: true,
		Product:       "Gecko",
		DeviceType:    "desktop",
		HasMouse:      true,
	}

	if userAgentString != "" {
		ua := useragent.New(userAgentString)
		p.Browser, p.BrowserVersion = ua.Browser()
		p.OS = ua.OS()
		p.DeviceType = deviceType(ua)
		p.Vendor = vendorFor(p.Browser)
		if ua.Mobile() {
			p.HasTouch = true
			p.HasMouse = false
		}
	}

	return p
}

func deviceType(ua *useragent.UserAgent) string {
	if ua.Mobile() {
		return "mobile"
	}
	if ua.Bot() {
		return "bot"
	}
	return "desktop"
}

func vendorFor(browser string) string {
	switch browser {
	case "Chrome", "Chromium", "Opera", "Edge":
		return "Google Inc."
	case "Safari":
		return "Apple Computer, Inc."
	default:
		return ""
	}
}
