package outlet

import (
	"net/url"
	"strings"
)

// Deny-list based outlet classification. There is no allow-list: a domain is
// accepted unless it matches a known non-news pattern. The classifier runs in
// the hot per-candidate loop and must never fail, so everything here is pure
// string work.

// blockedDomains are matched exactly or as a parent domain
// (e.g. "legiscan.com" also blocks "www.legiscan.com" and "api.legiscan.com").
var blockedDomains = []string{
	// Legislative tracking tools
	"legiscan.com",
	"billtrack50.com",
	"fastdemocracy.com",
	"openstates.org",
	"congress.gov",
	"govtrack.us",
	"legis.state.us",

	// Social media platforms
	"twitter.com",
	"x.com",
	"facebook.com",
	"instagram.com",
	"linkedin.com",
	"reddit.com",
	"youtube.com",
	"tiktok.com",
	"threads.net",
	"pinterest.com",
	"medium.com",

	// Law firm / bar association aggregators
	"jdsupra.com",
	"lexology.com",
	"natlawreview.com",
	"law.com",
	"justia.com",
	"findlaw.com",
	"americanbar.org",
	"martindale.com",
	"lawyers.com",

	// Raw CDN / document hosts
	"cloudfront.net",
	"amazonaws.com",
	"googleusercontent.com",
	"docs.google.com",
	"drive.google.com",
	"scribd.com",
	"documentcloud.org",
	"dropbox.com",

	// Generic non-news platforms
	"wikipedia.org",
	"wikimedia.org",
	"github.com",
	"stackoverflow.com",
	"yelp.com",
	"glassdoor.com",
	"indeed.com",
	"eventbrite.com",
	"meetup.com",
	"change.org",
	"gofundme.com",
	"surveymonkey.com",
	"zoominfo.com",
	"crunchbase.com",
	"yellowpages.com",
}

// blockedSuffixes catch whole TLD classes: government, military, academic.
var blockedSuffixes = []string{
	".gov",
	".mil",
	".edu",
}

// IsNewsOutlet reports whether a domain looks like a legitimate news source.
// The input is normalized first, so callers may pass a full URL host as-is.
func IsNewsOutlet(domain string) bool {
	domain = Normalize(domain)
	if domain == "" {
		return false
	}

	for _, suffix := range blockedSuffixes {
		if strings.HasSuffix(domain, suffix) {
			return false
		}
	}

	for _, blocked := range blockedDomains {
		if domain == blocked || strings.HasSuffix(domain, "."+blocked) {
			return false
		}
	}

	return true
}

// Normalize lowercases a domain and strips scheme leftovers, the "www."
// prefix, and any port.
func Normalize(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "https://")
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	if i := strings.Index(domain, ":"); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}

// Domain extracts the normalized outlet domain from a raw URL. Returns an
// empty string when the URL has no usable host.
func Domain(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return Normalize(rawURL)
	}
	return Normalize(parsed.Host)
}
