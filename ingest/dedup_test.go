package ingest

import (
	"testing"

	"newsrag/types"
)

func TestFingerprintNormalization(t *testing.T) {
	cases := []struct {
		name      string
		link      string
		title     string
		wantLink  string
		wantTitle string
	}{
		{"simple", "https://example.com/path", "Hello World", "https://example.com/path", "hello world"},
		{"utm and fragment", "https://example.com/path?utm_source=feed#section", "  Hello   World  ", "https://example.com/path", "hello world"},
		{"uppercase host", "HTTP://Example.COM/", "TiTle", "http://example.com", "title"},
		{"tracking params", "https://example.com/?fbclid=XYZ&gclid=ABC&utm_medium=1", "T", "https://example.com", "t"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := normalizeLink(c.link); got != c.wantLink {
				t.Fatalf("normalizeLink(%q) = %q; want %q", c.link, got, c.wantLink)
			}
			if got := normalizeTitle(c.title); got != c.wantTitle {
				t.Fatalf("normalizeTitle(%q) = %q; want %q", c.title, got, c.wantTitle)
			}
			if Fingerprint(&types.Article{Link: c.link, Title: c.title}) == "" {
				t.Fatal("Fingerprint returned empty hash")
			}
		})
	}
}

func TestFingerprintEquatesTrackingVariants(t *testing.T) {
	a := &types.Article{Link: "https://example.com/story?utm_source=rss", Title: "Big News"}
	b := &types.Article{Link: "https://Example.com/story#top", Title: "  big   news "}
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("tracking and case variants should share a fingerprint")
	}

	c := &types.Article{Link: "https://example.com/other", Title: "Big News"}
	if Fingerprint(a) == Fingerprint(c) {
		t.Error("distinct links should not share a fingerprint")
	}
}
