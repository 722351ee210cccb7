// Package markup turns dump content into display fragments: plain-text
// snippets of post bodies and tag clouds linking to tag pages.
package markup

import (
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// SnippetLength is the snippet size in characters.
const SnippetLength = 100

// Snippet strips the markup from body and returns the first SnippetLength
// characters of its text. Broken markup is tolerated by the HTML5 parser.
func Snippet(body string) string {
	text := body
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		text = doc.Text()
	}
	return truncate(text, SnippetLength)
}

func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// TagLink is one entry of a rendered tag cloud.
type TagLink struct {
	Name string
	URL  string
}

// TagURL is the tag page of tag within siteName.
func TagURL(siteName, tag string) string {
	return "/" + url.PathEscape(siteName) + "/tag/" + url.PathEscape(tag)
}

// TagCloud merges tag lists, drops duplicates and returns the tags sorted
// lexicographically, each linked to its tag page within siteName.
func TagCloud(siteName string, lists ...site.Tags) []TagLink {
	seen := make(map[string]struct{})
	var names []string
	for _, tags := range lists {
		for _, tag := range tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			names = append(names, tag)
		}
	}
	sort.Strings(names)
	out := make([]TagLink, 0, len(names))
	for _, name := range names {
		out = append(out, TagLink{Name: name, URL: TagURL(siteName, name)})
	}
	return out
}

// PostTags collects the tag lists of posts for TagCloud.
func PostTags(posts []site.Post) []site.Tags {
	out := make([]site.Tags, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Tags)
	}
	return out
}
