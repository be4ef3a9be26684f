package common

import "runtime"

// defaultBrowserExecutable returns the platform-specific name of the browser
// binary used for pre-launch hygiene process matching.
func defaultBrowserExecutable() string {
	if IsWindows() {
		return "chrome.exe"
	}
	return "chrome"
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}
