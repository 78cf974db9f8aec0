// Package paginator splits ordered result sets into fixed-size pages.
//
// Page numbers are resolved leniently: a missing or malformed number yields the
// first page and a number outside the valid range yields the last page, so a
// feed request never fails because of its page parameter.
package paginator

import "strconv"

// PerPage is the number of items on every feed page.
const PerPage = 10

// Page is one page of items plus enough metadata to render navigation.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int
}

// Window describes the slice of the underlying result set a page covers.
type Window struct {
	Number   int
	NumPages int
	Limit    int
	Offset   int
}

// NumPages returns how many pages count items occupy. An empty set still has
// one (empty) page.
func NumPages(count, perPage int) int {
	if count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// Resolve maps a raw page parameter onto a valid page for count items.
func Resolve(raw string, count int) Window {
	numPages := NumPages(count, PerPage)

	number, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}

	return Window{
		Number:   number,
		NumPages: numPages,
		Limit:    PerPage,
		Offset:   (number - 1) * PerPage,
	}
}

// NewPage assembles a Page from a resolved window and the items loaded for it.
func NewPage[T any](w Window, count int, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Number:   w.Number,
		NumPages: w.NumPages,
		Count:    count,
	}
}

// Empty is the single page of an empty result set.
func Empty[T any]() Page[T] {
	return NewPage[T](Resolve("", 0), 0, nil)
}

func (p Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}
func (p Page[T]) NextNumber() int     { return p.Number + 1 }
func (p Page[T]) PreviousNumber() int { return p.Number - 1 }

// PageRange lists every page number, for navigation links.
func (p Page[T]) PageRange() []int {
	pages := make([]int, p.NumPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
