package memory

import "github.com/JakeFAU/stackdump-mirror/internal/site"

// Demo returns a small stackoverflow-like dataset for running the mirror
// without a database.
func Demo() Dataset {
	return Dataset{
		Posts: []site.Post{
			{
				ID: 1, Score: 50, Title: "Why is iterating a sorted array faster?",
				Body:             "<p>Branch prediction makes the <code>if</code> cheap once the data is sorted.</p>",
				Tags:             site.ParseTags("<c++><performance>"),
				AcceptedAnswerID: ptr(int64(3)), OwnerUserID: ptr(int64(10)), AnswerCount: 2, CommentCount: 2,
			},
			{
				ID: 2, Score: 10, Title: "How do I reverse a vector?",
				Body:        "<p>I want to reverse a <b>std::vector</b> in place.</p>",
				Tags:        site.ParseTags("<c++>"),
				OwnerUserID: ptr(int64(11)),
			},
			{
				ID: 3, ParentID: ptr(int64(1)), Score: 80, OwnerUserID: ptr(int64(11)),
				Body: "<p>The CPU branch predictor guesses right almost every time on sorted input.</p>",
			},
			{
				ID: 4, ParentID: ptr(int64(1)), Score: 4, OwnerUserID: ptr(int64(12)),
				Body: "<p>Try compiling with <code>-O3</code>.</p>",
			},
			{
				ID: 5, Score: 30, Title: "What is a goroutine?",
				Body: "<p>How do goroutines differ from threads?</p>",
				Tags: site.ParseTags("<go><concurrency>"),
			},
		},
		Users: []site.User{
			{ID: 10, DisplayName: ptr("GManNickG"), Reputation: ptr(int64(120000)), Location: ptr("California")},
			{ID: 11, DisplayName: ptr("Mysticial"), Reputation: ptr(int64(450000)), Age: ptr(int64(33))},
			{ID: 12, DisplayName: ptr("anon")},
		},
		Comments: []site.Comment{
			{ID: 100, PostID: 1, Score: ptr(int64(2)), Text: "Great question."},
			{ID: 101, PostID: 1, Text: "Duplicate?"},
			{ID: 102, PostID: 1, Score: ptr(int64(15)), Text: "This is the canonical answer."},
		},
	}
}

func ptr[T any](v T) *T {
	return &v
}
