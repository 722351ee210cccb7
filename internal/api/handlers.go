package api

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/stackdump-mirror/internal/daily"
	"github.com/JakeFAU/stackdump-mirror/internal/markup"
	"github.com/JakeFAU/stackdump-mirror/internal/render"
	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// ResultLimit caps every post listing.
const ResultLimit = 25

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	view := render.IndexView{
		Page:  render.Page{Title: "Stack Exchange Mirror", Action: searchURL(s.defaultSite)},
		Names: s.registry.Names(),
	}
	s.render(w, r, render.IndexPage, view)
}

func (s *Server) siteHome(w http.ResponseWriter, r *http.Request) {
	name, store := siteFrom(r.Context())
	page, err := s.sitePage(r, name, store)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	view := render.SiteView{Page: page}
	random, err := s.articleOfTheDay(r, name, store)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if random != nil {
		summary := summarize(name, *random)
		view.Random = &summary
	}
	s.render(w, r, render.SitePage, view)
}

// articleOfTheDay returns nil when no post scores above daily.MinScore.
func (s *Server) articleOfTheDay(r *http.Request, name string, store site.Store) (*site.Post, error) {
	count, err := store.CountPopular(r.Context(), daily.MinScore)
	if err != nil {
		return nil, fmt.Errorf("count popular posts: %w", err)
	}
	offset, ok := daily.Pick(name, s.clock.Now(), count)
	if !ok {
		return nil, nil
	}
	post, err := store.PopularAt(r.Context(), daily.MinScore, offset)
	if errors.Is(err, site.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load popular post %d: %w", offset, err)
	}
	return &post, nil
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	name, store := siteFrom(r.Context())
	query := r.URL.Query().Get("q")
	posts, err := store.SearchBody(r.Context(), query, ResultLimit)
	if err != nil {
		s.fail(w, r, fmt.Errorf("search %q: %w", query, err))
		return
	}
	s.results(w, r, name, store, query, posts)
}

func (s *Server) tag(w http.ResponseWriter, r *http.Request) {
	name, store := siteFrom(r.Context())
	tag, ok := tagParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	posts, err := store.SearchTag(r.Context(), tag, ResultLimit)
	if err != nil {
		s.fail(w, r, fmt.Errorf("search tag %q: %w", tag, err))
		return
	}
	s.results(w, r, name, store, "tag:"+tag, posts)
}

func (s *Server) results(w http.ResponseWriter, r *http.Request, name string, store site.Store, query string, posts []site.Post) {
	page, err := s.sitePage(r, name, store)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page.Query = query
	page.Title = query

	view := render.SearchView{Page: page, Posts: make([]render.PostSummary, 0, len(posts))}
	for _, p := range posts {
		view.Posts = append(view.Posts, summarize(name, p))
	}
	s.render(w, r, render.SearchPage, view)
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	name, store := siteFrom(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	u, err := store.User(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.sitePage(r, name, store)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page.Title = u.Name()

	s.render(w, r, render.UserPage, render.UserView{
		Page:   page,
		Name:   u.Name(),
		Fields: render.UserFields(u),
	})
}

func (s *Server) post(w http.ResponseWriter, r *http.Request) {
	name, store := siteFrom(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	p, err := store.Post(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	answers, err := store.Answers(ctx, id)
	if err != nil {
		s.fail(w, r, fmt.Errorf("load answers of %d: %w", id, err))
		return
	}
	comments, err := store.Comments(ctx, id)
	if err != nil {
		s.fail(w, r, fmt.Errorf("load comments of %d: %w", id, err))
		return
	}
	owners, err := store.Users(ctx, ownerIDs(p, answers))
	if err != nil {
		s.fail(w, r, fmt.Errorf("load owners of %d: %w", id, err))
		return
	}

	accepted := p.Accepted()
	view := render.PostView{
		Page: render.Page{
			Title:  p.Title,
			Site:   name,
			Action: searchURL(name),
			Tags:   markup.TagCloud(name, p.Tags),
		},
		Post:     postItem(name, p, owners, false),
		Accepted: accepted,
		Answers:  make([]render.PostItem, 0, len(answers)),
		Comments: commentItems(comments),
	}
	for _, a := range answers {
		view.Answers = append(view.Answers, postItem(name, a, owners, a.ID == accepted))
	}
	s.render(w, r, render.PostPage, view)
}

// sitePage builds the shared page chrome, including the cloud of tags on the
// site's first posts.
func (s *Server) sitePage(r *http.Request, name string, store site.Store) (render.Page, error) {
	posts, err := store.Posts(r.Context(), ResultLimit)
	if err != nil {
		return render.Page{}, fmt.Errorf("load tag cloud posts: %w", err)
	}
	return render.Page{
		Site:   name,
		Action: searchURL(name),
		Tags:   markup.TagCloud(name, markup.PostTags(posts)...),
	}, nil
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Render(w, page, data); err != nil {
		s.fail(w, r, fmt.Errorf("render %s: %w", page, err))
	}
}

// fail maps site.ErrNotFound to 404 and everything else to a logged 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, site.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestID(r.Context())),
		zap.Error(err),
	)
	internalError(w)
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// tagParam returns the decoded tag segment. chi matches on the already
// decoded path unless the request carried escapes that decoding would
// lose (such as %2F), in which case the segment is still escaped.
func tagParam(r *http.Request) (string, bool) {
	tag := chi.URLParam(r, "tag")
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(tag)
		if err != nil {
			return "", false
		}
		tag = decoded
	}
	return tag, tag != ""
}

func ownerIDs(p site.Post, answers []site.Post) []int64 {
	seen := make(map[int64]struct{}, len(answers)+1)
	var ids []int64
	for _, post := range append([]site.Post{p}, answers...) {
		if post.OwnerUserID == nil {
			continue
		}
		if _, dup := seen[*post.OwnerUserID]; dup {
			continue
		}
		seen[*post.OwnerUserID] = struct{}{}
		ids = append(ids, *post.OwnerUserID)
	}
	return ids
}

func summarize(name string, p site.Post) render.PostSummary {
	return render.PostSummary{
		ID:      p.ID,
		Title:   p.Title,
		URL:     postURL(name, p.ID),
		Score:   p.Score,
		Snippet: markup.Snippet(p.Body),
		Tags:    markup.TagCloud(name, p.Tags),
	}
}

func postItem(name string, p site.Post, owners map[int64]site.User, accepted bool) render.PostItem {
	item := render.PostItem{
		ID:       p.ID,
		Title:    p.Title,
		Score:    p.Score,
		Body:     template.HTML(p.Body), //nolint:gosec // dump bodies are pre-sanitized HTML
		Snippet:  markup.Snippet(p.Body),
		Accepted: accepted,
	}
	if p.OwnerUserID != nil {
		if u, ok := owners[*p.OwnerUserID]; ok {
			label := u.Name()
			if label == "" {
				label = "user " + strconv.FormatInt(u.ID, 10)
			}
			item.Owner = &render.UserLink{Name: label, URL: userURL(name, u.ID)}
		}
	}
	return item
}

// commentItems orders comments by score, highest first, treating a missing
// score as 0. Ties keep store order.
func commentItems(comments []site.Comment) []render.CommentItem {
	sorted := append([]site.Comment(nil), comments...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScoreOrZero() > sorted[j].ScoreOrZero()
	})
	out := make([]render.CommentItem, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, render.CommentItem{Score: c.ScoreOrZero(), Text: c.Text})
	}
	return out
}

func searchURL(name string) string {
	return "/" + url.PathEscape(name) + "/search"
}

func postURL(name string, id int64) string {
	return "/" + url.PathEscape(name) + "/post/" + strconv.FormatInt(id, 10)
}

func userURL(name string, id int64) string {
	return "/" + url.PathEscape(name) + "/user/" + strconv.FormatInt(id, 10)
}
