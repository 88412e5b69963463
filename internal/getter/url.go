package getter

import "fmt"

// ReleasesURL is the human-browsable releases page of a GitHub repository.
func ReleasesURL(repo string) string {
	return fmt.Sprintf("https://github.com/%s/releases", repo)
}

// LatestDownloadBaseURL is the prefix GitHub redirects to the newest release's
// asset of the same name:
//
//	LatestDownloadBaseURL("zanwei/skiller") + "/Skiller_x64.dmg"
//	→ "https://github.com/zanwei/skiller/releases/latest/download/Skiller_x64.dmg"
func LatestDownloadBaseURL(repo string) string {
	return ReleasesURL(repo) + "/latest/download"
}
