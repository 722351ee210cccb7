package metrics

import (
	"context"
	"time"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// InstrumentStore wraps s so every lookup is counted and timed under siteName.
// Init must have been called.
func InstrumentStore(siteName string, s site.Store) site.Store {
	return &instrumentedStore{site: siteName, next: s}
}

type instrumentedStore struct {
	site string
	next site.Store
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	ObserveQuery(s.site, op, err, time.Since(start))
}

func (s *instrumentedStore) Posts(ctx context.Context, limit int) ([]site.Post, error) {
	start := time.Now()
	posts, err := s.next.Posts(ctx, limit)
	s.observe("posts", start, err)
	return posts, err
}

func (s *instrumentedStore) Post(ctx context.Context, id int64) (site.Post, error) {
	start := time.Now()
	p, err := s.next.Post(ctx, id)
	s.observe("post", start, err)
	return p, err
}

func (s *instrumentedStore) Answers(ctx context.Context, parentID int64) ([]site.Post, error) {
	start := time.Now()
	posts, err := s.next.Answers(ctx, parentID)
	s.observe("answers", start, err)
	return posts, err
}

func (s *instrumentedStore) Comments(ctx context.Context, postID int64) ([]site.Comment, error) {
	start := time.Now()
	comments, err := s.next.Comments(ctx, postID)
	s.observe("comments", start, err)
	return comments, err
}

func (s *instrumentedStore) User(ctx context.Context, id int64) (site.User, error) {
	start := time.Now()
	u, err := s.next.User(ctx, id)
	s.observe("user", start, err)
	return u, err
}

func (s *instrumentedStore) Users(ctx context.Context, ids []int64) (map[int64]site.User, error) {
	start := time.Now()
	users, err := s.next.Users(ctx, ids)
	s.observe("users", start, err)
	return users, err
}

func (s *instrumentedStore) SearchBody(ctx context.Context, query string, limit int) ([]site.Post, error) {
	start := time.Now()
	posts, err := s.next.SearchBody(ctx, query, limit)
	s.observe("search_body", start, err)
	return posts, err
}

func (s *instrumentedStore) SearchTag(ctx context.Context, tag string, limit int) ([]site.Post, error) {
	start := time.Now()
	posts, err := s.next.SearchTag(ctx, tag, limit)
	s.observe("search_tag", start, err)
	return posts, err
}

func (s *instrumentedStore) CountPopular(ctx context.Context, minScore int64) (int, error) {
	start := time.Now()
	n, err := s.next.CountPopular(ctx, minScore)
	s.observe("count_popular", start, err)
	return n, err
}

func (s *instrumentedStore) PopularAt(ctx context.Context, minScore int64, offset int) (site.Post, error) {
	start := time.Now()
	p, err := s.next.PopularAt(ctx, minScore, offset)
	s.observe("popular_at", start, err)
	return p, err
}

func (s *instrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}
