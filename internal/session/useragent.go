package session

import (
	"github.com/mssola/useragent"

	"zapway/internal/domain"
)

// describeDevice turns a User-Agent into a label like "Chrome / Windows".
func describeDevice(userAgent string) (string, domain.DeviceType) {
	ua := useragent.New(userAgent)

	browser, _ := ua.Browser()
	if browser == "" || ua.Bot() {
		browser = "Unknown Client"
	}

	kind := domain.DeviceDesktop
	if ua.Mobile() {
		kind = domain.DeviceMobile
	}
	return browser + " / " + platformName(ua), kind
}

func platformName(ua *useragent.UserAgent) string {
	// Android browsers report "Linux" as the platform.
	if ua.OSInfo().Name == "Android" {
		return "Android"
	}
	switch p := ua.Platform(); p {
	case "":
		return "Unknown OS"
	case "Macintosh":
		return "macOS"
	case "X11":
		return "Linux"
	default:
		return p
	}
}
