// Package site defines the Stack Exchange dump model and the read-only
// data access contract each mirrored site is served through.
package site

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound signals that the requested record (or site) does not exist.
var ErrNotFound = errors.New("record not found")

// NoAcceptedAnswer marks a question without an accepted answer.
const NoAcceptedAnswer int64 = -1

// Post is a question or an answer. ParentID is set for answers.
type Post struct {
	ID               int64
	ParentID         *int64
	PostTypeID       *int64
	AcceptedAnswerID *int64
	OwnerUserID      *int64
	CreationDate     *time.Time
	Score            int64
	ViewCount        int64
	AnswerCount      int64
	CommentCount     int64
	Title            string
	Body             string
	Tags             Tags
}

// IsAnswer reports whether the post answers another post.
func (p Post) IsAnswer() bool {
	return p.ParentID != nil
}

// Accepted returns the accepted answer id or NoAcceptedAnswer.
func (p Post) Accepted() int64 {
	if p.AcceptedAnswerID == nil {
		return NoAcceptedAnswer
	}
	return *p.AcceptedAnswerID
}

// User is a site member profile.
type User struct {
	ID             int64
	DisplayName    *string
	Reputation     *int64
	Age            *int64
	Location       *string
	UpVotes        *int64
	DownVotes      *int64
	Views          *int64
	CreationDate   *time.Time
	LastAccessDate *time.Time
	AboutMe        *string
	WebsiteURL     *string
}

// Name returns the display name, or an empty string when unset.
func (u User) Name() string {
	if u.DisplayName == nil {
		return ""
	}
	return *u.DisplayName
}

// Comment is attached to a post. A nil Score counts as zero.
type Comment struct {
	ID           int64
	PostID       int64
	Score        *int64
	Text         string
	CreationDate *time.Time
	UserID       *int64
}

// ScoreOrZero returns the comment score with NULL mapped to 0.
func (c Comment) ScoreOrZero() int64 {
	if c.Score == nil {
		return 0
	}
	return *c.Score
}

// Store is the read-only view of one site's posts, users and comments.
// Lookups of a single record return ErrNotFound when it does not exist.
type Store interface {
	// Posts returns the first limit posts in store order (by id).
	Posts(ctx context.Context, limit int) ([]Post, error)
	// Post loads a single post.
	Post(ctx context.Context, id int64) (Post, error)
	// Answers returns every post whose parent is parentID.
	Answers(ctx context.Context, parentID int64) ([]Post, error)
	// Comments returns every comment on the post, in store order.
	Comments(ctx context.Context, postID int64) ([]Comment, error)
	// User loads a single user.
	User(ctx context.Context, id int64) (User, error)
	// Users loads the users that exist among ids, keyed by id.
	Users(ctx context.Context, ids []int64) (map[int64]User, error)
	// SearchBody returns posts whose body contains query, highest score first.
	SearchBody(ctx context.Context, query string, limit int) ([]Post, error)
	// SearchTag returns posts tagged with tag, highest score first.
	SearchTag(ctx context.Context, tag string, limit int) ([]Post, error)
	// CountPopular counts posts scoring strictly above minScore.
	CountPopular(ctx context.Context, minScore int64) (int, error)
	// PopularAt returns the offset-th post (by id) scoring above minScore.
	PopularAt(ctx context.Context, minScore int64, offset int) (Post, error)
	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}
