package dumpsql

import (
	"fmt"
	"time"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// Scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanPost reads a row selected with the post column list.
func ScanPost(row Scanner) (site.Post, error) {
	var (
		p    site.Post
		tags string
	)
	err := row.Scan(
		&p.ID,
		&p.ParentID,
		&p.PostTypeID,
		&p.AcceptedAnswerID,
		&p.OwnerUserID,
		TimeInto(&p.CreationDate),
		&p.Score,
		&p.ViewCount,
		&p.AnswerCount,
		&p.CommentCount,
		&p.Title,
		&p.Body,
		&tags,
	)
	if err != nil {
		return site.Post{}, err
	}
	p.Tags = site.ParseTags(tags)
	return p, nil
}

// ScanUser reads a row selected with the user column list.
func ScanUser(row Scanner) (site.User, error) {
	var u site.User
	err := row.Scan(
		&u.ID,
		&u.DisplayName,
		&u.Reputation,
		&u.Age,
		&u.Location,
		&u.UpVotes,
		&u.DownVotes,
		&u.Views,
		TimeInto(&u.CreationDate),
		TimeInto(&u.LastAccessDate),
		&u.AboutMe,
		&u.WebsiteURL,
	)
	if err != nil {
		return site.User{}, err
	}
	return u, nil
}

// ScanComment reads a row selected with the comment column list.
func ScanComment(row Scanner) (site.Comment, error) {
	var c site.Comment
	err := row.Scan(
		&c.ID,
		&c.PostID,
		&c.Score,
		&c.Text,
		TimeInto(&c.CreationDate),
		&c.UserID,
	)
	if err != nil {
		return site.Comment{}, err
	}
	return c, nil
}

// Dump loaders stored datetimes either natively or as text in one of these layouts.
var timeLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// TimeInto returns a scan destination that accepts NULL, time.Time or a
// textual timestamp and stores the result in *dst.
func TimeInto(dst **time.Time) *NullTime {
	return &NullTime{dst: dst}
}

// NullTime implements sql.Scanner for nullable dump timestamps.
type NullTime struct {
	dst **time.Time
}

// Scan implements sql.Scanner.
func (n *NullTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n.dst = nil
		return nil
	case time.Time:
		t := v
		*n.dst = &t
		return nil
	case *time.Time:
		*n.dst = v
		return nil
	case string:
		return n.parse(v)
	case []byte:
		return n.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (n *NullTime) parse(s string) error {
	if s == "" {
		*n.dst = nil
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*n.dst = &t
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}
