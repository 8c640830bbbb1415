package extract

import "testing"

func TestValidName(t *testing.T) {
	tests := []struct {
		candidate string
		accepted  bool
	}{
		{"Jane Doe", true},
		{"By Jane Doe", true}, // stripped prefix
		{"Jane Marie O'Brien-Smith", true},
		{"José García", true},

		// Rejections
		{"Jane", false},              // single word
		{"jane doe", false},          // lowercase start
		{"Jane Doe 3rd", false},      // digits
		{"Jane <Doe>", false},        // symbols
		{"Staff Writer", false},      // placeholder
		{"Associated Press", false},  // placeholder
		{"The Editors", false},       // placeholder
		{"", false},
		{"A", false},
		{"This Is A Very Long Name That Exceeds Sixty Characters In Total Length", false},
	}

	for _, tt := range tests {
		_, ok := validName(tt.candidate)
		if ok != tt.accepted {
			t.Errorf("validName(%q) accepted=%v, expected %v", tt.candidate, ok, tt.accepted)
		}
	}
}

func TestExtractBylineFromMetadataAuthor(t *testing.T) {
	byline := ExtractByline("", "some article text", "sacbee.com", "Jane Doe")
	if byline == nil {
		t.Fatal("Expected byline from structured metadata author")
	}
	if byline.Name != "Jane Doe" {
		t.Errorf("Expected name 'Jane Doe', got '%s'", byline.Name)
	}
}

func TestExtractBylineFromJSONLD(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{"@type": "NewsArticle", "author": {"@type": "Person", "name": "John Q. Reporter"}}
		</script>
	</head><body>article</body></html>`

	byline := ExtractByline(html, "", "sacbee.com", "")
	if byline == nil {
		t.Fatal("Expected byline from JSON-LD person markup")
	}
	if byline.Name != "John Q. Reporter" {
		t.Errorf("Expected name 'John Q. Reporter', got '%s'", byline.Name)
	}
}

func TestExtractBylineFromMetaTag(t *testing.T) {
	html := `<html><head><meta name="author" content="Maria Santos"></head><body></body></html>`

	byline := ExtractByline(html, "", "sacbee.com", "")
	if byline == nil {
		t.Fatal("Expected byline from meta tag")
	}
	if byline.Name != "Maria Santos" {
		t.Errorf("Expected name 'Maria Santos', got '%s'", byline.Name)
	}
}

func TestExtractBylineSkipsMetaTagURL(t *testing.T) {
	html := `<html><head><meta property="article:author" content="https://facebook.com/janedoe"></head><body>By Jane Doe</body></html>`

	byline := ExtractByline(html, "By Jane Doe reporting from Sacramento", "sacbee.com", "")
	if byline == nil {
		t.Fatal("Expected byline from text pattern after URL meta tag was skipped")
	}
	if byline.Name != "Jane Doe" {
		t.Errorf("Expected name 'Jane Doe', got '%s'", byline.Name)
	}
}

func TestExtractBylineFromTextPattern(t *testing.T) {
	text := "California passes solar checkoff bill\nBy Sarah Jennings\nThe legislature on Tuesday..."

	byline := ExtractByline("", text, "sacbee.com", "")
	if byline == nil {
		t.Fatal("Expected byline from 'By <Name>' pattern")
	}
	if byline.Name != "Sarah Jennings" {
		t.Errorf("Expected name 'Sarah Jennings', got '%s'", byline.Name)
	}
}

func TestExtractBylineRejectsPlaceholderFromPattern(t *testing.T) {
	text := "By Staff Writer\nThe city council met on Monday to discuss zoning."

	if byline := ExtractByline("", text, "example.com", ""); byline != nil {
		t.Errorf("Placeholder byline should be rejected, got %+v", byline)
	}
}

func TestExtractBylineNoCandidate(t *testing.T) {
	if byline := ExtractByline("<html><body>plain page</body></html>", "no authors here", "example.com", ""); byline != nil {
		t.Errorf("Expected nil byline, got %+v", byline)
	}
}

func TestExtractEmailPrefersNameMatch(t *testing.T) {
	content := `Contact info@sacbee.com or reach the author at jdoe@sacbee.com`

	email := extractEmail(content, "Jane Doe", "sacbee.com")
	if email != "jdoe@sacbee.com" {
		t.Errorf("Expected jdoe@sacbee.com, got %s", email)
	}
}

func TestExtractEmailAvoidsRoleAccounts(t *testing.T) {
	content := `Send tips to tips@example.com. Reach our desk via desk42person@othersite.org`

	email := extractEmail(content, "Jane Doe", "example.com")
	if email != "desk42person@othersite.org" {
		t.Errorf("Expected non-role address preferred, got %s", email)
	}
}

func TestExtractEmailRoleAccountLastResort(t *testing.T) {
	content := `Questions? Email newsroom@example.com`

	email := extractEmail(content, "Jane Doe", "example.com")
	if email != "newsroom@example.com" {
		t.Errorf("Expected role account as last resort, got %s", email)
	}
}

func TestExtractTwitterPrefersNameOverlap(t *testing.T) {
	html := `<html><body>
		<a href="https://twitter.com/share">Share</a>
		<a href="https://twitter.com/CapitolDesk">Desk</a>
		<a href="https://twitter.com/jdoe_reports">Follow Jane</a>
	</body></html>`

	byline := ExtractByline(html, "By Jane Doe", "sacbee.com", "")
	if byline == nil {
		t.Fatal("Expected byline")
	}
	if byline.Twitter != "@jdoe_reports" {
		t.Errorf("Expected handle overlapping name token, got %s", byline.Twitter)
	}
}

func TestExtractTwitterFallsBackToFirstPlausible(t *testing.T) {
	html := `<html><body>
		<a href="https://twitter.com/share">Share</a>
		<a href="https://twitter.com/login">Log in</a>
		<a href="https://twitter.com/CapitolDesk">Desk</a>
	</body></html>`

	byline := ExtractByline(html, "By Jane Doe", "sacbee.com", "")
	if byline == nil {
		t.Fatal("Expected byline")
	}
	if byline.Twitter != "@CapitolDesk" {
		t.Errorf("Expected first plausible handle, got %s", byline.Twitter)
	}
}

func TestExtractLinkedInOnlyLiteralURLs(t *testing.T) {
	content := `Follow the author at https://www.linkedin.com/in/jane-doe-12345`

	if got := extractLinkedIn(content); got != "https://www.linkedin.com/in/jane-doe-12345" {
		t.Errorf("Expected literal LinkedIn URL, got %s", got)
	}

	if got := extractLinkedIn("no profile links here, just linkedin.com mentions"); got != "" {
		t.Errorf("Expected no LinkedIn URL, got %s", got)
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		content  string
		expected string
	}{
		{"Call the reporter at (916) 555-1234 for comment", "(916) 555-1234"},
		{"Reach us: 916-555-1234", "916-555-1234"},
		{"Our office: 916.555.1234", "916.555.1234"},
		{"no phone here", ""},
	}

	for _, tt := range tests {
		if got := extractPhone(tt.content); got != tt.expected {
			t.Errorf("extractPhone(%q) = %q, expected %q", tt.content, got, tt.expected)
		}
	}
}

func TestValidNameCountsRunesNotBytes(t *testing.T) {
	// 58 runes but 71 bytes; the length rule is about characters.
	name := "Éléonore Générosité Méditerranée Añoranza Čeština Ångström"

	if _, ok := validName(name); !ok {
		t.Errorf("Accented name within sixty characters should be accepted: %q", name)
	}
}

func TestExtractTwitterIgnoresEmailDomains(t *testing.T) {
	text := "By Jane Doe\nContact: jane.smith@tribune.com"

	byline := ExtractByline("", text, "tribune.com", "")
	if byline == nil {
		t.Fatal("Expected byline")
	}
	if byline.Twitter != "" {
		t.Errorf("Email domain must not be read as a handle, got %s", byline.Twitter)
	}
}

func TestExtractTwitterFromBareHandleInText(t *testing.T) {
	text := "By Jane Doe\nFollow her at @jdoe_reports for updates. Contact: jane.smith@tribune.com"

	byline := ExtractByline("", text, "tribune.com", "")
	if byline == nil {
		t.Fatal("Expected byline")
	}
	if byline.Twitter != "@jdoe_reports" {
		t.Errorf("Expected @jdoe_reports, got %s", byline.Twitter)
	}
}

func TestExtractBylineDeterministic(t *testing.T) {
	html := `<html><head><meta name="author" content="Jane Doe"></head>
	<body>By Jane Doe. Contact jdoe@sacbee.com or (916) 555-1234.
	<a href="https://twitter.com/jdoereports">@jdoereports</a></body></html>`

	first := ExtractByline(html, "By Jane Doe", "sacbee.com", "")
	for i := 0; i < 5; i++ {
		next := ExtractByline(html, "By Jane Doe", "sacbee.com", "")
		if *next != *first {
			t.Fatalf("Extraction is not deterministic: %+v vs %+v", next, first)
		}
	}
}
