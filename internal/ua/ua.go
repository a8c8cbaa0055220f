// internal/ua/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  The access log
// and requestinfo are the only callers.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes recorded per request.
//
// Example (Chrome on macOS):
//
//	Browser   "BrowserChrome"
//	Version   "125"
//	OS        "OSMacOSX"
//	OSVersion "10.15.7"
//	Device    "Desktop"
//	Platform  "PlatformMac"
//	IsBot     false
//
// Device will be one of: "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string
	Platform  string
	IsBot     bool
	Raw       string
}

// Parse converts a raw header into an Info struct.  An empty header yields
// an Info with Device "Other".
func Parse(raw string) Info {
	ua := surfer.Parse(raw)

	info := Info{
		Browser:   ua.Browser.Name.String(),
		Version:   versionToString(ua.Browser.Version),
		OS:        ua.OS.Name.String(),
		OSVersion: versionToString(ua.OS.Version),
		Platform:  ua.OS.Platform.String(),
		IsBot:     ua.IsBot(),
		Raw:       raw,
	}

	switch ua.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// String renders a short human summary, e.g. "Chrome 125 on Mac OS X
// (Desktop)".  A zero Info renders as "unknown".
func (i Info) String() string {
	if i.Browser == "" && i.OS == "" {
		return "unknown"
	}
	var b strings.Builder
	b.WriteString(strings.TrimPrefix(i.Browser, "Browser"))
	if i.Version != "" {
		b.WriteString(" " + i.Version)
	}
	if i.OS != "" {
		b.WriteString(" on " + strings.TrimPrefix(i.OS, "OS"))
	}
	if i.Device != "" {
		b.WriteString(" (" + i.Device + ")")
	}
	return b.String()
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}
