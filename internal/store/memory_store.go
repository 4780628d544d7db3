package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/domain/users"
	"portfolio-app/internal/domain/works"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in-process. Used by tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	artworks map[string]works.Artwork
	audios   map[string]audio.Audio
	links    []works.ArtworkAudio
	users    map[uint]users.User
	order    map[string]int // insertion sequence, breaks created ties
	seq      int
	nextUser uint

	now func() time.Time
}

// NewMemoryStore initializes an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		artworks: make(map[string]works.Artwork),
		audios:   make(map[string]audio.Audio),
		users:    make(map[uint]users.User),
		order:    make(map[string]int),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) track(id string) {
	m.seq++
	m.order[id] = m.seq
}

// ------------------------------
// artworks
// ------------------------------

func (m *MemoryStore) CreateArtwork(_ context.Context, a *works.Artwork) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, ok := m.artworks[a.ID]; ok {
		return fmt.Errorf("%w: artwork %s", ErrConflict, a.ID)
	}
	if m.artworkTitleTaken(a.Title, "") {
		return fmt.Errorf("%w: title %q", ErrConflict, a.Title)
	}
	now := m.now()
	a.Created, a.UpdatedAt = now, now
	m.artworks[a.ID] = cloneArtwork(*a)
	m.track(a.ID)
	return nil
}

func (m *MemoryStore) artworkTitleTaken(title, exceptID string) bool {
	for id, a := range m.artworks {
		if id != exceptID && a.Title == title {
			return true
		}
	}
	return false
}

func (m *MemoryStore) GetArtwork(_ context.Context, id string) (works.Artwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.artworks[id]
	if !ok {
		return works.Artwork{}, ErrNotFound
	}
	return cloneArtwork(a), nil
}

func (m *MemoryStore) GetArtworkBySlug(_ context.Context, slug string) (works.Artwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	want := works.NormalizeSlug(slug)
	for _, a := range m.sortedArtworks("created", "asc") {
		if works.Slug(a.Title) == want {
			return cloneArtwork(a), nil
		}
	}
	return works.Artwork{}, ErrNotFound
}

func (m *MemoryStore) UpdateArtwork(_ context.Context, id string, patch works.ArtworkPatch) (works.Artwork, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artworks[id]
	if !ok {
		return works.Artwork{}, ErrNotFound
	}
	if patch.Empty() {
		return cloneArtwork(a), nil
	}
	if patch.Title != nil && m.artworkTitleTaken(strings.TrimSpace(*patch.Title), id) {
		return works.Artwork{}, fmt.Errorf("%w: title %q", ErrConflict, *patch.Title)
	}
	patch.ApplyTo(&a)
	a.UpdatedAt = m.now()
	m.artworks[id] = a
	return cloneArtwork(a), nil
}

func (m *MemoryStore) DeleteArtwork(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artworks[id]; !ok {
		return ErrNotFound
	}
	for cid, a := range m.artworks {
		if a.ParentID != nil && *a.ParentID == id {
			a.ParentID = nil
			a.UpdatedAt = m.now()
			m.artworks[cid] = a
		}
	}
	m.links = slices.DeleteFunc(m.links, func(l works.ArtworkAudio) bool { return l.ArtworkID == id })
	delete(m.artworks, id)
	delete(m.order, id)
	return nil
}

func (m *MemoryStore) ListArtworks(_ context.Context, p ListParams) (Page[works.Artwork], error) {
	p = p.Normalize()
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []works.Artwork
	for _, a := range m.sortedArtworks(p.SortBy, p.SortOrder) {
		if p.Kind != "" && string(a.Kind) != p.Kind {
			continue
		}
		if p.Published == "published" && !a.Published {
			continue
		}
		if p.Published == "unpublished" && a.Published {
			continue
		}
		if p.Query != "" && !matchesQuery(a, p.Query) {
			continue
		}
		matched = append(matched, cloneArtwork(a))
	}

	total := int64(len(matched))
	pages := totalPages(total, p.PageSize)
	page := clampPage(p.Page, pages)
	start := min((page-1)*p.PageSize, len(matched))
	end := min(start+p.PageSize, len(matched))

	return Page[works.Artwork]{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}, nil
}

func matchesQuery(a works.Artwork, q string) bool {
	lq := strings.ToLower(q)
	if strings.Contains(strings.ToLower(a.Title), lq) ||
		strings.Contains(strings.ToLower(a.AccessibilityDescription), lq) {
		return true
	}
	return slices.Contains(a.Tags, q)
}

func (m *MemoryStore) FindArtworks(_ context.Context, q ArtworkQuery) ([]works.Artwork, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []works.Artwork{}
	for _, a := range m.sortedArtworks("created", "desc") {
		if q.FamilyOf != "" && a.ID != q.FamilyOf && !parentIs(a, q.FamilyOf) {
			continue
		}
		if q.ChildrenOf != "" && !parentIs(a, q.ChildrenOf) {
			continue
		}
		if q.ExcludeID != "" && a.ID == q.ExcludeID {
			continue
		}
		if q.PublishedOnly && !a.Published {
			continue
		}
		out = append(out, cloneArtwork(a))
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) HasChildren(_ context.Context, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.artworks {
		if parentIs(a, id) {
			return true, nil
		}
	}
	return false, nil
}

func parentIs(a works.Artwork, id string) bool {
	return a.ParentID != nil && *a.ParentID == id
}

// sortedArtworks must be called with the lock held.
func (m *MemoryStore) sortedArtworks(sortBy, sortOrder string) []works.Artwork {
	out := make([]works.Artwork, 0, len(m.artworks))
	for _, a := range m.artworks {
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y works.Artwork) int {
		var c int
		if sortBy == "title" {
			c = strings.Compare(x.Title, y.Title)
		} else {
			c = x.Created.Compare(y.Created)
		}
		if c == 0 {
			c = m.order[x.ID] - m.order[y.ID]
		}
		if sortOrder == "desc" {
			return -c
		}
		return c
	})
	return out
}

func cloneArtwork(a works.Artwork) works.Artwork {
	if a.ParentID != nil {
		p := *a.ParentID
		a.ParentID = &p
	}
	a.MainObjects = slices.Clone(a.MainObjects)
	a.Tags = slices.Clone(a.Tags)
	a.Emotions = slices.Clone(a.Emotions)
	a.Colours = slices.Clone(a.Colours)
	return a
}

// ------------------------------
// audios
// ------------------------------

func (m *MemoryStore) CreateAudio(_ context.Context, a *audio.Audio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	for _, existing := range m.audios {
		if existing.ID == a.ID || existing.Title == a.Title {
			return fmt.Errorf("%w: audio %q", ErrConflict, a.Title)
		}
	}
	now := m.now()
	a.Created, a.UpdatedAt = now, now
	m.audios[a.ID] = *a
	m.track(a.ID)
	return nil
}

func (m *MemoryStore) GetAudio(_ context.Context, id string) (audio.Audio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.audios[id]
	if !ok {
		return audio.Audio{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) ListAudios(_ context.Context, tag string, publishedOnly bool) ([]audio.Audio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tag = strings.TrimSpace(tag)
	out := []audio.Audio{}
	for _, a := range m.audios {
		if publishedOnly && !a.Published {
			continue
		}
		if tag != "" && !slices.Contains(a.Tags, tag) {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y audio.Audio) int {
		if c := y.Created.Compare(x.Created); c != 0 {
			return c
		}
		return m.order[y.ID] - m.order[x.ID]
	})
	return out, nil
}

func (m *MemoryStore) UpdateAudio(_ context.Context, id string, patch audio.AudioPatch) (audio.Audio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.audios[id]
	if !ok {
		return audio.Audio{}, ErrNotFound
	}
	if len(patch.Columns()) == 0 {
		return a, nil
	}
	patch.ApplyTo(&a)
	a.UpdatedAt = m.now()
	m.audios[id] = a
	return a, nil
}

func (m *MemoryStore) DeleteAudio(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.audios[id]; !ok {
		return ErrNotFound
	}
	m.links = slices.DeleteFunc(m.links, func(l works.ArtworkAudio) bool { return l.AudioID == id })
	delete(m.audios, id)
	delete(m.order, id)
	return nil
}

// ------------------------------
// links
// ------------------------------

func (m *MemoryStore) LinkAudio(_ context.Context, artworkID, audioID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artworks[artworkID]; !ok {
		return ErrNotFound
	}
	if _, ok := m.audios[audioID]; !ok {
		return ErrNotFound
	}
	for _, l := range m.links {
		if l.ArtworkID == artworkID && l.AudioID == audioID {
			return nil
		}
	}
	m.links = append(m.links, works.ArtworkAudio{ArtworkID: artworkID, AudioID: audioID, CreatedAt: m.now()})
	return nil
}

func (m *MemoryStore) UnlinkAudio(_ context.Context, artworkID, audioID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := len(m.links)
	m.links = slices.DeleteFunc(m.links, func(l works.ArtworkAudio) bool {
		return l.ArtworkID == artworkID && l.AudioID == audioID
	})
	if len(m.links) == before {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) ListArtworkAudios(_ context.Context, artworkID string, publishedOnly bool) ([]audio.Audio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []audio.Audio{}
	for _, l := range m.links {
		if l.ArtworkID != artworkID {
			continue
		}
		a, ok := m.audios[l.AudioID]
		if !ok || (publishedOnly && !a.Published) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// ------------------------------
// users
// ------------------------------

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, ErrNotFound
}

func (m *MemoryStore) GetUserByGoogleSub(_ context.Context, sub string) (users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.GoogleSub != nil && *u.GoogleSub == sub {
			return u, nil
		}
	}
	return users.User{}, ErrNotFound
}

func (m *MemoryStore) SaveUser(_ context.Context, u *users.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.users {
		if id != u.ID && existing.Email == u.Email {
			return fmt.Errorf("%w: user %q", ErrConflict, u.Email)
		}
	}
	now := m.now()
	if u.ID == 0 {
		m.nextUser++
		u.ID = m.nextUser
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	m.users[u.ID] = *u
	return nil
}
