// Package navigation carries breadcrumbs and the active menu entry into
// rendered pages and admin views.
package navigation

// BreadcrumbItem is one step of the trail from the site root to the current page.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context is exposed to templates as .Data.Navigation (site pages) or
// .Navigation (admin views).
type Context struct {
	PageTitle     string
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
}

// NewContext creates a navigation context without breadcrumbs.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb appends a breadcrumb and returns c for chaining.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{Title: title, URL: url, Active: active})

	return c
}

// Up returns the breadcrumb before the last one, the parent of the current
// page. ok is false at the root.
func (c *Context) Up() (item BreadcrumbItem, ok bool) {
	if len(c.Breadcrumbs) < 2 { //nolint:mnd
		return BreadcrumbItem{}, false
	}

	return c.Breadcrumbs[len(c.Breadcrumbs)-2], true
}

// Depth is the number of breadcrumbs below the root.
func (c *Context) Depth() int {
	if len(c.Breadcrumbs) == 0 {
		return 0
	}

	return len(c.Breadcrumbs) - 1
}

// IsActive reports whether section and page are the current ones.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive reports whether section is the current one.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
