package group

// Group is a named category posts may optionally belong to.
type Group struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
}

func (g Group) String() string { return g.Title }
