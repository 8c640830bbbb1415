package extract

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// Byline extraction is pure and network-free: everything is derived from the
// page that was already fetched, so it can run against arbitrary HTML without
// side effects. Every field except Name is best-effort and may stay empty.

type Byline struct {
	Name     string
	Email    string
	Phone    string
	Twitter  string
	LinkedIn string
}

// ExtractByline resolves the author of a page. Name resolution order:
// structured metadata author, JSON-LD person markup, HTML meta tags, textual
// "By <Name>" patterns. Returns nil when no candidate survives validation.
func ExtractByline(html, text, domain, metaAuthor string) *Byline {
	var doc *goquery.Document
	if html != "" {
		if parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			doc = parsed
		}
	}

	name := firstValidName(
		metaAuthor,
		jsonLDAuthor(doc),
		metaTagAuthor(doc),
		textPatternAuthor(text),
	)
	if name == "" {
		return nil
	}

	byline := &Byline{Name: name}
	combined := html + "\n" + text

	byline.Email = extractEmail(combined, name, domain)
	byline.Phone = extractPhone(combined)
	byline.Twitter = extractTwitter(doc, combined, name)
	byline.LinkedIn = extractLinkedIn(combined)

	return byline
}

// --- name resolution ---

var namePlaceholders = map[string]bool{
	"staff writer":      true,
	"staff writers":     true,
	"staff report":      true,
	"staff reports":     true,
	"news staff":        true,
	"associated press":  true,
	"the associated press": true,
	"ap":                true,
	"reuters":           true,
	"admin":             true,
	"administrator":     true,
	"editor":            true,
	"editorial board":   true,
	"the editors":       true,
	"newsroom":          true,
	"correspondent":     true,
	"guest contributor": true,
	"contributor":       true,
	"press release":     true,
	"web desk":          true,
}

func firstValidName(candidates ...string) string {
	for _, candidate := range candidates {
		if name, ok := validName(candidate); ok {
			return name
		}
	}
	return ""
}

// validName applies the acceptance rules: 2-60 characters, at least two
// words, leading uppercase, no digits or symbols, not a generic placeholder.
func validName(candidate string) (string, bool) {
	candidate = norm.NFC.String(candidate)
	candidate = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(candidate), "By "))
	candidate = strings.Join(strings.Fields(candidate), " ")

	if n := utf8.RuneCountInString(candidate); n < 2 || n > 60 {
		return "", false
	}

	words := strings.Fields(candidate)
	if len(words) < 2 {
		return "", false
	}

	first := []rune(candidate)[0]
	if !unicode.IsUpper(first) {
		return "", false
	}

	for _, r := range candidate {
		if unicode.IsDigit(r) {
			return "", false
		}
		if !unicode.IsLetter(r) && r != ' ' && r != '.' && r != '\'' && r != '-' {
			return "", false
		}
	}

	if namePlaceholders[strings.ToLower(candidate)] {
		return "", false
	}

	return candidate, true
}

func jsonLDAuthor(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	var author string
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		author = authorFromJSONLD(payload)
		return author == ""
	})

	return author
}

// authorFromJSONLD digs the author name out of arbitrary JSON-LD: the author
// field may be a string, a person object, or an array of either.
func authorFromJSONLD(payload any) string {
	switch value := payload.(type) {
	case []any:
		for _, entry := range value {
			if name := authorFromJSONLD(entry); name != "" {
				return name
			}
		}
	case map[string]any:
		if author, ok := value["author"]; ok {
			if name := personName(author); name != "" {
				return name
			}
		}
		if graph, ok := value["@graph"]; ok {
			return authorFromJSONLD(graph)
		}
	}
	return ""
}

func personName(author any) string {
	switch value := author.(type) {
	case string:
		return value
	case []any:
		for _, entry := range value {
			if name := personName(entry); name != "" {
				return name
			}
		}
	case map[string]any:
		if name, ok := value["name"].(string); ok {
			return name
		}
	}
	return ""
}

var authorMetaSelectors = []string{
	`meta[name="author"]`,
	`meta[property="article:author"]`,
	`meta[name="parsely-author"]`,
	`meta[name="sailthru.author"]`,
	`meta[name="twitter:creator:name"]`,
}

func metaTagAuthor(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}

	for _, selector := range authorMetaSelectors {
		content, exists := doc.Find(selector).First().Attr("content")
		if !exists {
			continue
		}
		// article:author is sometimes a profile URL, which is not a name.
		if strings.HasPrefix(content, "http://") || strings.HasPrefix(content, "https://") {
			continue
		}
		if content != "" {
			return content
		}
	}

	return ""
}

// Word spacing inside the captured name must not cross line breaks, or the
// headline on the following line would be swallowed into the name.
var bylinePattern = regexp.MustCompile(`\b[Bb]y[: \t][ \t]*([A-ZÀ-Ö][\w.'-]+(?:[ \t]+[A-ZÀ-Ö][\w.'-]+){1,3})`)

func textPatternAuthor(text string) string {
	matches := bylinePattern.FindStringSubmatch(text)
	if matches == nil {
		return ""
	}
	return matches[1]
}

// --- contact extraction ---

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

var genericEmailPrefixes = map[string]bool{
	"info":          true,
	"tips":          true,
	"news":          true,
	"newsroom":      true,
	"editor":        true,
	"editors":       true,
	"contact":       true,
	"support":       true,
	"admin":         true,
	"webmaster":     true,
	"sales":         true,
	"press":         true,
	"media":         true,
	"hello":         true,
	"office":        true,
	"noreply":       true,
	"no-reply":      true,
	"subscriptions": true,
	"circulation":   true,
	"advertising":   true,
	"ads":           true,
	"feedback":      true,
	"letters":       true,
}

// extractEmail prefers an address whose local part overlaps the author name,
// then any non-role-account address, then a role account as last resort.
func extractEmail(content, name, domain string) string {
	matches := emailPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return ""
	}

	tokens := nameTokens(name)
	domain = strings.ToLower(domain)

	var atOutlet, personal, generic string
	for _, email := range matches {
		lower := strings.ToLower(email)
		at := strings.Index(lower, "@")
		local, host := lower[:at], lower[at+1:]

		// Asset filenames captured by the pattern (e.g. logo@2x.png).
		if strings.HasSuffix(lower, ".png") || strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".gif") || strings.HasSuffix(lower, ".svg") || strings.HasSuffix(lower, ".webp") {
			continue
		}

		for _, token := range tokens {
			if strings.Contains(local, token) {
				return lower
			}
		}

		if genericEmailPrefixes[strings.SplitN(local, ".", 2)[0]] || genericEmailPrefixes[local] {
			if generic == "" {
				generic = lower
			}
			continue
		}

		if domain != "" && (host == domain || strings.HasSuffix(host, "."+domain)) {
			if atOutlet == "" {
				atOutlet = lower
			}
			continue
		}

		if personal == "" {
			personal = lower
		}
	}

	if atOutlet != "" {
		return atOutlet
	}
	if personal != "" {
		return personal
	}
	return generic
}

var phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.-]\d{3}[\s.-]\d{4}`)

func extractPhone(content string) string {
	return strings.TrimSpace(phonePattern.FindString(content))
}

var twitterHrefPattern = regexp.MustCompile(`(?:twitter\.com|x\.com)/(@?[A-Za-z0-9_]{2,15})`)

// The bare-handle pattern must not fire on the domain half of an email
// address, so the @ may not be preceded by a word character or a dot.
var twitterHandlePattern = regexp.MustCompile(`(?:^|[^\w.@])@([A-Za-z0-9_]{2,15})\b`)

// chromeHandles are UI artifacts that show up in share widgets and footers,
// never real author handles.
var chromeHandles = map[string]bool{
	"share":     true,
	"intent":    true,
	"login":     true,
	"signup":    true,
	"home":      true,
	"search":    true,
	"hashtag":   true,
	"explore":   true,
	"settings":  true,
	"privacy":   true,
	"about":     true,
	"help":      true,
	"tos":       true,
	"status":    true,
	"widgets":   true,
	"download":  true,
	"i":         true,
	"media":     true,
	"following": true,
	"followers": true,
}

// extractTwitter prefers a handle whose text overlaps a name token, falling
// back to the first plausible handle found.
func extractTwitter(doc *goquery.Document, content, name string) string {
	var candidates []string
	seen := map[string]bool{}

	add := func(handle string) {
		handle = strings.TrimPrefix(handle, "@")
		lower := strings.ToLower(handle)
		if handle == "" || chromeHandles[lower] || seen[lower] {
			return
		}
		seen[lower] = true
		candidates = append(candidates, handle)
	}

	if doc != nil {
		doc.Find(`a[href*="twitter.com/"], a[href*="x.com/"]`).Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			if matches := twitterHrefPattern.FindStringSubmatch(href); matches != nil {
				add(matches[1])
			}
		})
	}

	for _, matches := range twitterHrefPattern.FindAllStringSubmatch(content, -1) {
		add(matches[1])
	}
	for _, matches := range twitterHandlePattern.FindAllStringSubmatch(content, -1) {
		add(matches[1])
	}

	if len(candidates) == 0 {
		return ""
	}

	for _, token := range nameTokens(name) {
		for _, handle := range candidates {
			if strings.Contains(strings.ToLower(handle), token) {
				return "@" + handle
			}
		}
	}

	return "@" + candidates[0]
}

var linkedInPattern = regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/in/[A-Za-z0-9\-_%]+`)

// extractLinkedIn only accepts profile URLs literally present in the page;
// guessed profile URLs are worse than none.
func extractLinkedIn(content string) string {
	return linkedInPattern.FindString(content)
}

func nameTokens(name string) []string {
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(name)) {
		token = strings.Trim(token, ".'-")
		if len(token) >= 3 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
