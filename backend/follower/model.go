package follower

// Follow is a directed edge: UserID receives AuthorID's posts in their feed.
type Follow struct {
	ID       int64 `db:"id"`
	UserID   int64 `db:"user_id"`
	AuthorID int64 `db:"author_id"`
}

// Counts summarises one user's place in the follow graph.
type Counts struct {
	Followers int
	Following int
}
