// Package fixture loads content trees described in YAML into the database.
package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/gophilo/gophilo/internal/cms"
	"github.com/gophilo/gophilo/internal/contenttype"
	"github.com/gophilo/gophilo/internal/db/models"
)

var (
	// ErrCoreNil is returned when no core is given.
	ErrCoreNil = errors.New("cms core is nil")
	// ErrUnknownRef is returned when a reference names an object the fixture did not define.
	ErrUnknownRef = errors.New("unknown reference")
	// ErrAttributes is returned when some attributes of a page could not be committed.
	ErrAttributes = errors.New("attribute commit failed")
)

// File is the root of a fixture document.
type File struct {
	Groups    []Group    `yaml:"groups"`
	Users     []User     `yaml:"users"`
	Tags      []Tag      `yaml:"tags"`
	Templates []Template `yaml:"templates"`
	Pages     []Page     `yaml:"pages"`
	Sites     []Site     `yaml:"sites"`
}

// Group describes a group. Groups are referenced by name.
type Group struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// User describes an account. Users are referenced by username.
type User struct {
	Username  string   `yaml:"username"`
	Email     string   `yaml:"email"`
	Password  string   `yaml:"password"`
	FirstName string   `yaml:"first_name"`
	LastName  string   `yaml:"last_name"`
	Active    bool     `yaml:"active"`
	Groups    []string `yaml:"groups"`
}

// Tag describes a tag. Tags are referenced by slug.
type Tag struct {
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

// Template describes a template and its children. Templates are referenced by path.
type Template struct {
	Slug          string     `yaml:"slug"`
	Name          string     `yaml:"name"`
	Documentation string     `yaml:"documentation"`
	MimeType      string     `yaml:"mime_type"`
	Code          string     `yaml:"code"`
	Children      []Template `yaml:"children"`
}

// Contentlet describes the content of one container.
type Contentlet struct {
	Content string `yaml:"content"`
	Dynamic bool   `yaml:"dynamic"`
	Format  string `yaml:"format"`
}

// Ref points at objects defined in the fixture or already stored.
// Keys holds one key for a single reference. Many selects a set reference.
type Ref struct {
	Type string   `yaml:"type"`
	Keys []string `yaml:"keys"`
	Many bool     `yaml:"many"`
}

// Page describes a page and its children. Pages are referenced by path.
type Page struct {
	Slug        string                `yaml:"slug"`
	Title       string                `yaml:"title"`
	Template    string                `yaml:"template"`
	Contentlets map[string]Contentlet `yaml:"contentlets"`
	Attributes  map[string]any        `yaml:"attributes"`
	Refs        map[string]Ref        `yaml:"refs"`
	Children    []Page                `yaml:"children"`
}

// Site describes a site. Root is the path of its root page.
type Site struct {
	Domain string `yaml:"domain"`
	Name   string `yaml:"name"`
	Root   string `yaml:"root"`
}

// Result counts the loaded objects.
type Result struct {
	Groups      int
	Users       int
	Tags        int
	Templates   int
	Pages       int
	Contentlets int
	Attributes  int
	Sites       int
}

// Parse decodes a fixture document.
func Parse(r io.Reader) (*File, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	return &f, nil
}

// LoadFile parses the fixture at path and loads it through core.
func LoadFile(core *cms.Core, path string) (*Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		return nil, err
	}

	return Load(core, f)
}

type loader struct {
	core   *cms.Core
	result *Result
	groups map[string]*models.Group
	users  map[string]*models.User
	tags   map[string]*models.Tag
	tpls   map[string]*models.Template
	pages  map[string]*models.Page
	sites  map[string]*models.Site
	staged []staged
}

type staged struct {
	page  *models.Page
	path  string
	entry *Page
}

// Load stores f through core. Objects are created in dependency order:
// groups, users, tags, templates, pages with their contentlets, sites. Page
// attributes are committed last so that they may reference any page.
// Loading stops at the first error; objects stored before it are kept.
func Load(core *cms.Core, f *File) (*Result, error) {
	if core == nil {
		return nil, ErrCoreNil
	}

	l := &loader{
		core:   core,
		result: &Result{},
		groups: make(map[string]*models.Group),
		users:  make(map[string]*models.User),
		tags:   make(map[string]*models.Tag),
		tpls:   make(map[string]*models.Template),
		pages:  make(map[string]*models.Page),
		sites:  make(map[string]*models.Site),
	}

	steps := []func(*File) error{
		l.loadGroups,
		l.loadUsers,
		l.loadTags,
		l.loadTemplates,
		l.loadPages,
		l.loadAttributes,
		l.loadSites,
	}

	for _, step := range steps {
		if err := step(f); err != nil {
			return l.result, err
		}
	}

	log.Info().
		Int("templates", l.result.Templates).
		Int("pages", l.result.Pages).
		Int("attributes", l.result.Attributes).
		Msg("fixture loaded")

	return l.result, nil
}

func (l *loader) loadGroups(f *File) error {
	for _, g := range f.Groups {
		group := &models.Group{Name: g.Name, Description: g.Description}
		if err := l.core.DB().Create(group).Error; err != nil {
			return fmt.Errorf("group %q: %w", g.Name, err)
		}

		l.groups[g.Name] = group
		l.result.Groups++
	}

	return nil
}

func (l *loader) loadUsers(f *File) error {
	for _, u := range f.Users {
		user := &models.User{
			Active:    u.Active,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}

		if u.Password != "" {
			user.Password = models.HashPassword(u.Password)
		}

		for _, name := range u.Groups {
			obj, err := l.lookup("group", name)
			if err != nil {
				return fmt.Errorf("user %q: %w", u.Username, err)
			}

			user.Groups = append(user.Groups, *obj.(*models.Group))
		}

		if err := l.core.DB().Create(user).Error; err != nil {
			return fmt.Errorf("user %q: %w", u.Username, err)
		}

		l.users[u.Username] = user
		l.result.Users++
	}

	return nil
}

func (l *loader) loadTags(f *File) error {
	for _, t := range f.Tags {
		tag := &models.Tag{Name: t.Name, Slug: t.Slug}
		if tag.Slug == "" {
			tag.Slug = strings.ToLower(t.Name)
		}

		if err := l.core.DB().Create(tag).Error; err != nil {
			return fmt.Errorf("tag %q: %w", t.Name, err)
		}

		l.tags[tag.Slug] = tag
		l.result.Tags++
	}

	return nil
}

func (l *loader) loadTemplates(f *File) error {
	return l.templates(f.Templates, nil, "")
}

func (l *loader) templates(entries []Template, parent *models.Template, prefix string) error {
	for i := range entries {
		entry := &entries[i]

		tpl := &models.Template{
			Slug:          entry.Slug,
			Name:          entry.Name,
			Documentation: entry.Documentation,
			MimeType:      entry.MimeType,
			Code:          entry.Code,
		}

		if tpl.Name == "" {
			tpl.Name = entry.Slug
		}

		if parent != nil {
			tpl.ParentID = &parent.ID
		}

		path := l.join(prefix, entry.Slug)

		if err := l.core.Templates().Create(tpl); err != nil {
			return fmt.Errorf("template %q: %w", path, err)
		}

		l.tpls[path] = tpl
		l.result.Templates++

		if err := l.templates(entry.Children, tpl, path); err != nil {
			return err
		}
	}

	return nil
}

func (l *loader) loadPages(f *File) error {
	return l.pagesOf(f.Pages, nil, "")
}

func (l *loader) pagesOf(entries []Page, parent *models.Page, prefix string) error {
	for i := range entries {
		entry := &entries[i]
		path := l.join(prefix, entry.Slug)

		obj, err := l.lookup("template", entry.Template)
		if err != nil {
			return fmt.Errorf("page %q: %w", path, err)
		}

		page := &models.Page{
			Slug:       entry.Slug,
			Title:      entry.Title,
			TemplateID: obj.ObjectID(),
		}

		if parent != nil {
			page.ParentID = &parent.ID
		}

		if err = l.core.Pages().Create(page); err != nil {
			return fmt.Errorf("page %q: %w", path, err)
		}

		l.pages[path] = page
		l.result.Pages++

		if err = l.contentlets(page, path, entry.Contentlets); err != nil {
			return err
		}

		l.staged = append(l.staged, staged{page: page, path: path, entry: entry})

		if err = l.pagesOf(entry.Children, page, path); err != nil {
			return err
		}
	}

	return nil
}

func (l *loader) contentlets(page *models.Page, path string, entries map[string]Contentlet) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		entry := entries[name]

		cl := &models.Contentlet{
			Name:    name,
			Content: entry.Content,
			Dynamic: entry.Dynamic,
			Format:  models.ContentletFormat(entry.Format),
		}

		if err := l.core.SaveContentlet(page, cl); err != nil {
			return fmt.Errorf("page %q contentlet %q: %w", path, name, err)
		}

		l.result.Contentlets++
	}

	return nil
}

func (l *loader) loadAttributes(*File) error {
	for _, s := range l.staged {
		payloads := make(map[string]any, len(s.entry.Attributes)+len(s.entry.Refs))

		for k, v := range s.entry.Attributes {
			payloads[k] = v
		}

		for k, ref := range s.entry.Refs {
			v, err := l.resolve(ref)
			if err != nil {
				return fmt.Errorf("page %q attribute %q: %w", s.path, k, err)
			}

			payloads[k] = v
		}

		if len(payloads) == 0 {
			continue
		}

		result, err := l.core.UpdatePage(s.page, payloads)
		if err != nil {
			return fmt.Errorf("page %q: %w", s.path, err)
		}

		if !result.OK() {
			return fmt.Errorf("page %q: %w: %w", s.path, ErrAttributes, result.Err())
		}

		l.result.Attributes += len(result.Results)
	}

	return nil
}

func (l *loader) loadSites(f *File) error {
	for _, s := range f.Sites {
		site := &models.Site{Domain: strings.ToLower(s.Domain), Name: s.Name}

		if s.Root != "" {
			obj, err := l.lookup("page", s.Root)
			if err != nil {
				return fmt.Errorf("site %q: %w", s.Domain, err)
			}

			id := obj.ObjectID()
			site.RootPageID = &id
		}

		if err := l.core.DB().Create(site).Error; err != nil {
			return fmt.Errorf("site %q: %w", s.Domain, err)
		}

		l.sites[site.Domain] = site
		l.result.Sites++
	}

	return nil
}

// resolve turns ref into the payload of a reference attribute.
func (l *loader) resolve(ref Ref) (any, error) {
	objs := make([]contenttype.Object, 0, len(ref.Keys))

	for _, key := range ref.Keys {
		obj, err := l.lookup(ref.Type, key)
		if err != nil {
			return nil, err
		}

		objs = append(objs, obj)
	}

	if ref.Many {
		return objs, nil
	}

	if len(objs) != 1 {
		return nil, fmt.Errorf("%w: single %s reference needs exactly one key", ErrUnknownRef, ref.Type)
	}

	return objs[0], nil
}

// lookup finds an object by its fixture key, first among the objects loaded
// so far and then in the database.
func (l *loader) lookup(typ, key string) (contenttype.Object, error) {
	var (
		obj contenttype.Object
		ok  bool
	)

	switch typ {
	case "group":
		obj, ok = lookupIn(l.groups, key)
		if !ok {
			obj, ok = l.stored(&models.Group{}, "name = ?", key)
		}
	case "user":
		obj, ok = lookupIn(l.users, key)
		if !ok {
			obj, ok = l.stored(&models.User{}, "username = ?", key)
		}
	case "tag":
		obj, ok = lookupIn(l.tags, key)
		if !ok {
			obj, ok = l.stored(&models.Tag{}, "slug = ?", key)
		}
	case "site":
		obj, ok = lookupIn(l.sites, strings.ToLower(key))
		if !ok {
			obj, ok = l.stored(&models.Site{}, "domain = ?", strings.ToLower(key))
		}
	case "template":
		obj, ok = lookupIn(l.tpls, l.normalize(key))
		if !ok {
			if tpl, err := l.core.Templates().Get(key, nil); err == nil {
				obj, ok = tpl, true
			}
		}
	case "page":
		obj, ok = lookupIn(l.pages, l.normalize(key))
		if !ok {
			if page, err := l.core.Pages().Get(key, nil); err == nil {
				obj, ok = page, true
			}
		}
	default:
		return nil, fmt.Errorf("%w: %w: %q", ErrUnknownRef, contenttype.ErrNotRegistered, typ)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownRef, typ, key)
	}

	return obj, nil
}

func lookupIn[T any, PT interface {
	*T
	contenttype.Object
}](m map[string]PT, key string) (contenttype.Object, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}

	return v, true
}

func (l *loader) stored(row contenttype.Object, query, key string) (contenttype.Object, bool) {
	if err := l.core.DB().Where(query, key).First(row).Error; err != nil {
		return nil, false
	}

	return row, true
}

func (l *loader) join(prefix, slug string) string {
	if prefix == "" {
		return slug
	}

	return prefix + l.core.Separator() + slug
}

func (l *loader) normalize(path string) string {
	return strings.Join(l.core.Pages().Split(path), l.core.Separator())
}
