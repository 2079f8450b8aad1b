package domain

// FeedEntry is a single parsed item returned by the feed client.
// Content holds the structured body (content:encoded, atom content), Description the summary.
type FeedEntry struct {
	ID          string
	Title       string
	Link        string
	Author      string
	Description string
	Content     string
}

// PostableUnit is a formatted entry ready for submission.
// Segments[0] goes to the root post, every following segment is a reply to the previous one.
type PostableUnit struct {
	Title     string
	Link      string
	Subreddit string
	Segments  []string
}

// Submission is one of the bot's own posts as reported by the posting API
type Submission struct {
	ID    string // fullname, e.g. t3_abc
	URL   string
	Title string
	Ups   int
	Downs int
}

// Score returns upvotes minus downvotes
func (s Submission) Score() int {
	return s.Ups - s.Downs
}
