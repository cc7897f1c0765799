package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"
)

// IndexName is the document that carries the top-level slide of a directory row.
const IndexName = "index"

// ConfigName is the deck configuration file, which is never a slide.
const ConfigName = "lectern"

// Loader adapts the Loam library to the Lectern DeckLoader interface.
//
// Layout convention:
//   - every top-level document is a row without nested slides
//   - every top-level directory is a row; its documents are the nested slides
//   - an optional index document in a directory provides the row's own slide
//
// Rows and nested slides are ordered by path, so numeric prefixes
// (01-intro.md, 02-agenda/) control the order.
type Loader struct {
	Repo  *loam.TypedRepository[SlideMetadata]
	Title string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[SlideMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", dir, err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam at %s: %w", absPath, err)
	}
	return New(loam.NewTypedRepository[SlideMetadata](repo)), nil
}

type entry struct {
	path    string // extension-less, slash separated
	id      string
	title   string
	content string
	frags   []domain.FragmentHandle
	meta    map[string]any
}

// Load reads every document and assembles the deck.
func (l *Loader) Load(ctx context.Context) (*domain.Deck, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	rows := make(map[string]*rowBuilder)

	// List only enumerates documents: its metadata comes from the repository
	// index and may lag behind the files, so every field is read from Get.
	for _, doc := range docs {
		path := trimExtension(doc.ID)
		if skip(path) {
			continue
		}

		full, err := l.Repo.Get(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", path, err)
		}
		if full.Data.Hidden {
			continue
		}

		id := full.Data.ID
		if id == "" {
			id = path
		}
		id = trimExtension(id)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		frags, err := decodeFragments(full.Data.Fragments)
		if err != nil {
			return nil, fmt.Errorf("slide %s: %w", id, err)
		}

		e := entry{
			path:    path,
			id:      id,
			title:   full.Data.Title,
			content: full.Content,
			frags:   frags,
			meta:    full.Data.Metadata,
		}
		if e.title == "" {
			e.title = headingOf(e.content)
		}

		key, rest, nested := strings.Cut(path, "/")
		rb, ok := rows[key]
		if !ok {
			rb = &rowBuilder{key: key}
			rows[key] = rb
		}
		switch {
		case !nested:
			rb.self = &e
		case rest == IndexName:
			rb.self = &e
		default:
			rb.nested = append(rb.nested, e)
		}
	}

	if len(rows) == 0 {
		return nil, domain.ErrEmptyDeck
	}

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	deck := &domain.Deck{Title: l.Title, Slides: make([]domain.Slide, 0, len(keys))}
	for _, k := range keys {
		slide, err := rows[k].build()
		if err != nil {
			return nil, err
		}
		deck.Slides = append(deck.Slides, slide)
	}
	return deck, nil
}

type rowBuilder struct {
	key    string
	self   *entry
	nested []entry
}

func (rb *rowBuilder) build() (domain.Slide, error) {
	if rb.self != nil && len(rb.nested) > 0 && !strings.Contains(rb.self.path, "/") {
		return domain.Slide{}, fmt.Errorf("row '%s' is defined both as a document and as a directory", rb.key)
	}

	var top domain.Slide
	if rb.self != nil {
		top = rb.self.slide()
	} else {
		top = domain.Slide{ID: rb.key, Title: rb.key}
	}

	sort.Slice(rb.nested, func(i, j int) bool { return rb.nested[i].path < rb.nested[j].path })
	for _, e := range rb.nested {
		top.Nested = append(top.Nested, e.slide())
	}
	return top, nil
}

func (e entry) slide() domain.Slide {
	return domain.Slide{
		ID:        e.id,
		Title:     e.title,
		Content:   e.content,
		Fragments: e.frags,
		Metadata:  e.meta,
	}
}

// skip reports whether a document path is not part of the deck.
func skip(path string) bool {
	if path == ConfigName {
		return true
	}
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, ".") || strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}

func decodeFragments(raw []any) ([]domain.FragmentHandle, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	handles := make([]domain.FragmentHandle, 0, len(raw))
	for i, item := range raw {
		switch v := item.(type) {
		case string:
			handles = append(handles, domain.FragmentHandle(v))
		case map[string]any, map[any]any:
			var frag LoaderFragment
			if err := mapstructure.Decode(v, &frag); err != nil {
				return nil, fmt.Errorf("failed to decode fragment %d: %w", i, err)
			}
			handle := frag.ID
			if handle == "" {
				handle = frag.Text
			}
			if handle == "" {
				return nil, fmt.Errorf("fragment %d has neither id nor text", i)
			}
			handles = append(handles, domain.FragmentHandle(handle))
		default:
			return nil, fmt.Errorf("invalid fragment definition type: %T", v)
		}
	}
	return handles, nil
}

// headingOf returns the first level-one markdown heading.
func headingOf(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				if skip(trimExtension(evt.ID)) {
					continue
				}
				// Coalesce bursts: one pending signal is enough to trigger a reload.
				select {
				case ch <- struct{}{}:
				case <-ctx.Done():
					return
				default:
				}
			}
		}
	}()

	return ch, nil
}
