package printing

// Layout is the number of item rows that fit on each kind of page.
// The first page also carries the client and info cards, the last page the
// totals and signatures.
type Layout struct {
	First  int
	Middle int
	Last   int
}

// DefaultLayout fits an A4 delivery note
var DefaultLayout = Layout{First: 12, Middle: 18, Last: 10}

func (l Layout) valid() bool {
	return l.First > 0 && l.Middle > 0 && l.Last > 0
}

// Page is one printed page of rows
type Page[T any] struct {
	Number  int
	Items   []T
	IsFirst bool
	IsLast  bool
}

// Paginate splits items into pages. The split depends only on len(items):
//   - len <= First+Last: one page, both first and last
//   - otherwise First rows, then Middle-row pages while more than Last rows
//     remain, then the remainder on the last page
//
// A middle page that takes every remaining row becomes the last page, so
// the last page is never empty.
func Paginate[T any](items []T, layout Layout) []Page[T] {
	if !layout.valid() {
		layout = DefaultLayout
	}
	n := len(items)
	if n <= layout.First+layout.Last {
		return []Page[T]{{Number: 1, Items: items, IsFirst: true, IsLast: true}}
	}

	pages := []Page[T]{{Number: 1, Items: items[:layout.First], IsFirst: true}}
	i := layout.First
	for n-i > layout.Last {
		end := min(i+layout.Middle, n)
		pages = append(pages, Page[T]{Number: len(pages) + 1, Items: items[i:end]})
		i = end
	}
	if i < n {
		pages = append(pages, Page[T]{Number: len(pages) + 1, Items: items[i:]})
	}
	pages[len(pages)-1].IsLast = true
	return pages
}
