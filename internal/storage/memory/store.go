// Package memory serves a site from an in-process dataset for tests and demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// Dataset is the raw content of one site.
type Dataset struct {
	Posts    []site.Post
	Users    []site.User
	Comments []site.Comment
}

// Store implements site.Store over an immutable Dataset.
type Store struct {
	posts    []site.Post
	users    map[int64]site.User
	comments []site.Comment
}

var _ site.Store = (*Store)(nil)

// New copies data into a Store. Records are kept in id order.
func New(data Dataset) *Store {
	posts := append([]site.Post(nil), data.Posts...)
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	comments := append([]site.Comment(nil), data.Comments...)
	sort.SliceStable(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	users := make(map[int64]site.User, len(data.Users))
	for _, u := range data.Users {
		users[u.ID] = u
	}
	return &Store{posts: posts, users: users, comments: comments}
}

// Posts returns the first limit posts by id.
func (s *Store) Posts(_ context.Context, limit int) ([]site.Post, error) {
	return head(s.posts, limit), nil
}

// Post loads a post by id.
func (s *Store) Post(_ context.Context, id int64) (site.Post, error) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, nil
		}
	}
	return site.Post{}, site.ErrNotFound
}

// Answers returns posts whose parent is parentID.
func (s *Store) Answers(_ context.Context, parentID int64) ([]site.Post, error) {
	return s.filter(func(p site.Post) bool {
		return p.IsAnswer() && *p.ParentID == parentID
	}), nil
}

// Comments returns the comments on postID.
func (s *Store) Comments(_ context.Context, postID int64) ([]site.Comment, error) {
	var out []site.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

// User loads a user by id.
func (s *Store) User(_ context.Context, id int64) (site.User, error) {
	u, ok := s.users[id]
	if !ok {
		return site.User{}, site.ErrNotFound
	}
	return u, nil
}

// Users loads the known users among ids.
func (s *Store) Users(_ context.Context, ids []int64) (map[int64]site.User, error) {
	out := make(map[int64]site.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// SearchBody returns posts whose body contains query, best score first.
func (s *Store) SearchBody(_ context.Context, query string, limit int) ([]site.Post, error) {
	return head(byScore(s.filter(func(p site.Post) bool {
		return strings.Contains(p.Body, query)
	})), limit), nil
}

// SearchTag returns posts carrying tag, best score first.
func (s *Store) SearchTag(_ context.Context, tag string, limit int) ([]site.Post, error) {
	return head(byScore(s.filter(func(p site.Post) bool {
		return p.Tags.Has(tag)
	})), limit), nil
}

// CountPopular counts posts scoring above minScore.
func (s *Store) CountPopular(_ context.Context, minScore int64) (int, error) {
	return len(s.popular(minScore)), nil
}

// PopularAt returns the offset-th popular post by id.
func (s *Store) PopularAt(_ context.Context, minScore int64, offset int) (site.Post, error) {
	popular := s.popular(minScore)
	if offset < 0 || offset >= len(popular) {
		return site.Post{}, fmt.Errorf("popular offset %d: %w", offset, site.ErrNotFound)
	}
	return popular[offset], nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) popular(minScore int64) []site.Post {
	return s.filter(func(p site.Post) bool { return p.Score > minScore })
}

func (s *Store) filter(keep func(site.Post) bool) []site.Post {
	var out []site.Post
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func byScore(posts []site.Post) []site.Post {
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Score > posts[j].Score })
	return posts
}

func head(posts []site.Post, limit int) []site.Post {
	if limit >= 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return append([]site.Post(nil), posts...)
}
