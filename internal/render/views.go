package render

import (
	"html/template"
	"strconv"
	"time"

	"github.com/JakeFAU/stackdump-mirror/internal/markup"
	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// Page carries what the layout needs on every page.
type Page struct {
	Title string
	// Site is empty on the index page.
	Site string
	// Action is the search form target.
	Action string
	Query  string
	Tags   []markup.TagLink
}

// IndexView lists the mirrored sites.
type IndexView struct {
	Page
	Names []string
}

// SiteView is a site's front page.
type SiteView struct {
	Page
	// Random is nil when no post qualifies as article of the day.
	Random *PostSummary
}

// SearchView lists search or tag results.
type SearchView struct {
	Page
	Posts []PostSummary
}

// UserView is a user profile.
type UserView struct {
	Page
	Name   string
	Fields []Field
}

// PostView is a question (or answer) with its thread.
type PostView struct {
	Page
	Post     PostItem
	Answers  []PostItem
	Accepted int64
	Comments []CommentItem
}

// PostSummary is one row of a post listing.
type PostSummary struct {
	ID      int64
	Title   string
	URL     string
	Score   int64
	Snippet string
	Tags    []markup.TagLink
}

// PostItem is a fully rendered post.
type PostItem struct {
	ID       int64
	Title    string
	Score    int64
	Body     template.HTML
	Snippet  string
	Owner    *UserLink
	Accepted bool
}

// UserLink points at a user profile.
type UserLink struct {
	Name string
	URL  string
}

// CommentItem is one comment line.
type CommentItem struct {
	Score int64
	Text  string
}

// Field is one profile row.
type Field struct {
	Key   string
	Value string
	// HTML marks values that carry dump markup (the bio).
	HTML template.HTML
}

// UserFields lists the profile fields in display order; NULLs render empty.
func UserFields(u site.User) []Field {
	return []Field{
		{Key: "displayname", Value: str(u.DisplayName)},
		{Key: "reputation", Value: num(u.Reputation)},
		{Key: "age", Value: num(u.Age)},
		{Key: "location", Value: str(u.Location)},
		{Key: "upvotes", Value: num(u.UpVotes)},
		{Key: "downvotes", Value: num(u.DownVotes)},
		{Key: "views", Value: num(u.Views)},
		{Key: "creationdate", Value: stamp(u.CreationDate)},
		{Key: "lastaccessdate", Value: stamp(u.LastAccessDate)},
		{Key: "aboutme", HTML: template.HTML(str(u.AboutMe))}, //nolint:gosec // dump content is pre-sanitized
		{Key: "websiteurl", Value: str(u.WebsiteURL)},
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateTime)
}
