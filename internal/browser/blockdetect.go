package browser

import (
	"net/url"
	"strings"
)

// BlockType describes the kind of anti-automation page a search landed on.
type BlockType string

const (
	BlockNone    BlockType = ""
	BlockCaptcha BlockType = "captcha"
	BlockConsent BlockType = "consent"
)

// DetectBlock checks the URL a search ended on for interstitials that stand
// between the browser and the map: the "unusual traffic" captcha served under
// /sorry/, and the cookie consent wall on a consent.* host.
func DetectBlock(rawURL string) (bool, BlockType) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, BlockNone
	}

	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	if strings.HasPrefix(path, "/sorry/") || strings.Contains(path, "/recaptcha/") {
		return true, BlockCaptcha
	}

	if strings.HasPrefix(host, "consent.") {
		return true, BlockConsent
	}

	return false, BlockNone
}
