package tablequery

import "net/url"

// History is the navigable location a Controller syncs with. Query
// returns the current query parameters; Push replaces them with the
// next set. Pushes are last-write-wins, matching browser navigation.
type History interface {
	Query() url.Values
	Push(url.Values)
}

// Controller binds one namespaced table state to a History. The state
// is re-derived from the History on every read, so the query string
// stays the single source of truth. Mutators overlay one concern onto
// the current state and push the re-encoded result; any change to
// filters, sort or search snaps the page back to 1 so the user is
// never left on a page the new result set does not have.
type Controller struct {
	codec   Codec
	history History
}

func NewController(ns string, defaultPageSize int, history History) *Controller {
	return &Controller{
		codec:   Codec{NS: ns, DefaultPageSize: defaultPageSize},
		history: history,
	}
}

// State decodes the current table state from the History.
func (c *Controller) State() TableState {
	return c.codec.Decode(c.history.Query())
}

func (c *Controller) UpdateFilters(filters []ColumnFilter) TableState {
	s := c.State()
	s.Filters = filters
	s.Pagination.Page = 1
	return c.push(s)
}

func (c *Controller) UpdateSort(sort []SortField) TableState {
	s := c.State()
	s.Sort = sort
	s.Pagination.Page = 1
	return c.push(s)
}

func (c *Controller) UpdateSearch(search *Search) TableState {
	s := c.State()
	s.Search = search
	s.Pagination.Page = 1
	return c.push(s)
}

// UpdatePagination moves within the current result set; filters, sort
// and search are left exactly as they are.
func (c *Controller) UpdatePagination(p Pagination) TableState {
	s := c.State()
	s.Pagination = p
	return c.push(s)
}

// Reset drops every key this namespace owns. Parameters belonging to
// other namespaces or to the rest of the application survive.
func (c *Controller) Reset() {
	c.history.Push(c.codec.Clear(c.history.Query()))
}

func (c *Controller) push(s TableState) TableState {
	c.history.Push(c.codec.Apply(c.history.Query(), s))
	return c.State()
}
