// Package dumpsql holds the SQL shared by the relational site stores: query
// text over the per-site "{site}_posts/_users/_comments" tables and the row
// scanners that turn dump rows into site records.
package dumpsql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JakeFAU/stackdump-mirror/internal/site"
)

// Dialect selects the placeholder syntax.
type Dialect int

// Supported dialects.
const (
	Postgres Dialect = iota
	SQLite
)

// Arg returns the placeholder for the n-th (1-based) argument.
func (d Dialect) Arg(n int) string {
	if d == SQLite {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

const postColumns = `id, parentid, posttypeid, acceptedanswerid, owneruserid, creationdate,
	COALESCE(score, 0), COALESCE(viewcount, 0), COALESCE(answercount, 0), COALESCE(commentcount, 0),
	COALESCE(title, ''), COALESCE(body, ''), COALESCE(tags, '')`

const userColumns = `id, displayname, reputation, age, location, upvotes, downvotes, views,
	creationdate, lastaccessdate, aboutme, websiteurl`

const commentColumns = `id, postid, score, COALESCE(text, ''), creationdate, userid`

// Queries is the query text for one site.
type Queries struct {
	Posts        string
	Post         string
	Answers      string
	Comments     string
	User         string
	SearchBody   string
	SearchTag    string
	CountPopular string
	PopularAt    string
	Ping         string

	dialect Dialect
	users   string
}

// New builds the queries for the site whose tables carry prefix.
func New(prefix string, d Dialect) (Queries, error) {
	if !site.ValidName(prefix) {
		return Queries{}, fmt.Errorf("invalid site name %q", prefix)
	}
	posts := prefix + "_posts"
	users := prefix + "_users"
	comments := prefix + "_comments"
	a := d.Arg
	return Queries{
		Posts: fmt.Sprintf(`SELECT %s FROM %s ORDER BY id LIMIT %s`, postColumns, posts, a(1)),
		Post:  fmt.Sprintf(`SELECT %s FROM %s WHERE id = %s`, postColumns, posts, a(1)),
		Answers: fmt.Sprintf(`SELECT %s FROM %s WHERE parentid = %s ORDER BY id`,
			postColumns, posts, a(1)),
		Comments: fmt.Sprintf(`SELECT %s FROM %s WHERE postid = %s ORDER BY id`,
			commentColumns, comments, a(1)),
		User: fmt.Sprintf(`SELECT %s FROM %s WHERE id = %s`, userColumns, users, a(1)),
		SearchBody: fmt.Sprintf(`SELECT %s FROM %s WHERE COALESCE(body, '') LIKE %s ESCAPE '\'
	ORDER BY COALESCE(score, 0) DESC, id LIMIT %s`, postColumns, posts, a(1), a(2)),
		SearchTag: fmt.Sprintf(`SELECT %s FROM %s WHERE COALESCE(tags, '') LIKE %s ESCAPE '\'
	ORDER BY COALESCE(score, 0) DESC, id LIMIT %s`, postColumns, posts, a(1), a(2)),
		CountPopular: fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE score > %s`, posts, a(1)),
		PopularAt: fmt.Sprintf(`SELECT %s FROM %s WHERE score > %s ORDER BY id LIMIT 1 OFFSET %s`,
			postColumns, posts, a(1), a(2)),
		Ping:    fmt.Sprintf(`SELECT 1 FROM %s LIMIT 1`, posts),
		dialect: d,
		users:   users,
	}, nil
}

// UsersIn returns the batch user query for n ids. Postgres binds the ids as a
// single array argument; SQLite gets one placeholder per id.
func (q Queries) UsersIn(n int) string {
	if q.dialect == Postgres {
		return fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, userColumns, q.users)
	}
	marks := strings.TrimSuffix(strings.Repeat("?,", n), ",")
	return fmt.Sprintf(`SELECT %s FROM %s WHERE id IN (%s)`, userColumns, q.users, marks)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns s into a LIKE pattern matching it as a literal substring.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// TagPattern matches a tag string containing the exact bracketed tag.
func TagPattern(tag string) string {
	return ContainsPattern("<" + tag + ">")
}
