// Package routes is the fixed map of pages served under the base path:
// the login and registration views and the three home tabs.
package routes

import (
	"fmt"
	"path"
	"strings"
)

type Section struct {
	Name string // tab bar label
	Tab  string // path segment
	Icon string // ionicons name
	Path string
}

type View string

const (
	LoginView    View = "login"
	RegisterView View = "register"
	SectionView  View = "section"
)

type Kind int

const (
	NotFound Kind = iota
	Render
	Redirect
)

type Match struct {
	Kind    Kind
	View    View
	Section Section // set when View is SectionView
	Target  string  // set when Kind is Redirect
}

// Entry is one row of the route table, used for listing.
type Entry struct {
	Path   string
	View   View
	Target string
}

type Table struct {
	base       string
	sections   []Section
	defaultTab string
	views      map[string]Match
	redirects  map[string]string
}

// New builds the table rooted at base. The table is never mutated afterwards.
func New(base string) *Table {
	base = "/" + strings.Trim(base, "/")
	t := &Table{
		base:       base,
		defaultTab: "dashboard",
		views:      make(map[string]Match),
		redirects:  make(map[string]string),
	}

	for _, s := range []Section{
		{Name: "Dashboard", Tab: "dashboard", Icon: "clipboard-outline"},
		{Name: "Search", Tab: "search", Icon: "search-circle-outline"},
		{Name: "Favorites", Tab: "favorites", Icon: "bookmarks-outline"},
	} {
		s.Path = t.join("app", "home", s.Tab)
		t.sections = append(t.sections, s)
		t.views[s.Path] = Match{Kind: Render, View: SectionView, Section: s}
	}

	t.views[base] = Match{Kind: Render, View: LoginView}
	t.views[t.Register()] = Match{Kind: Render, View: RegisterView}

	t.redirects[t.App()] = t.Home()
	t.redirects[t.Home()] = t.DefaultSection().Path

	return t
}

func (t *Table) join(segments ...string) string {
	return path.Join(append([]string{t.base}, segments...)...)
}

func (t *Table) Base() string {
	return t.base
}

// Login is the entry view. It carries a trailing slash like the original
// deployment's public URL.
func (t *Table) Login() string {
	if t.base == "/" {
		return "/"
	}
	return t.base + "/"
}

func (t *Table) Register() string { return t.join("register") }
func (t *Table) App() string      { return t.join("app") }
func (t *Table) Home() string     { return t.join("app", "home") }
func (t *Table) Logout() string   { return t.join("app", "logout") }
func (t *Table) Static() string   { return t.join("static") }

func (t *Table) Sections() []Section {
	out := make([]Section, len(t.sections))
	copy(out, t.sections)
	return out
}

func (t *Table) Section(tab string) (Section, bool) {
	for _, s := range t.sections {
		if s.Tab == tab {
			return s, true
		}
	}
	return Section{}, false
}

func (t *Table) DefaultSection() Section {
	s, _ := t.Section(t.defaultTab)
	return s
}

// Resolve maps a request path to a view or a single redirect hop.
// Unknown paths below the home container fall back to the default section.
func (t *Table) Resolve(p string) Match {
	clean := path.Clean("/" + p)

	if m, ok := t.views[clean]; ok {
		return m
	}
	if target, ok := t.redirects[clean]; ok {
		return Match{Kind: Redirect, Target: target}
	}
	if strings.HasPrefix(clean, t.Home()+"/") {
		return Match{Kind: Redirect, Target: t.DefaultSection().Path}
	}
	return Match{Kind: NotFound}
}

// Check follows every redirect and verifies it reaches a rendered view in at
// most maxHops hops.
func (t *Table) Check(maxHops int) error {
	for from := range t.redirects {
		if err := t.follow(from, maxHops); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) follow(from string, maxHops int) error {
	seen := map[string]bool{from: true}
	cur := from
	for hops := 0; hops < maxHops; hops++ {
		m := t.Resolve(cur)
		switch m.Kind {
		case Render:
			return nil
		case NotFound:
			return fmt.Errorf("redirect from %s ends at unknown path %s", from, cur)
		}
		if seen[m.Target] {
			return fmt.Errorf("redirect loop from %s at %s", from, m.Target)
		}
		seen[m.Target] = true
		cur = m.Target
	}
	if t.Resolve(cur).Kind == Render {
		return nil
	}
	return fmt.Errorf("redirect from %s exceeds %d hops", from, maxHops)
}

// Entries lists views and redirects in a stable order.
func (t *Table) Entries() []Entry {
	entries := []Entry{
		{Path: t.Login(), View: LoginView},
		{Path: t.Register(), View: RegisterView},
		{Path: t.App(), Target: t.redirects[t.App()]},
		{Path: t.Home(), Target: t.redirects[t.Home()]},
	}
	for _, s := range t.sections {
		entries = append(entries, Entry{Path: s.Path, View: SectionView})
	}
	return entries
}
