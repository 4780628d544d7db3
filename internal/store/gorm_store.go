package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/domain/users"
	"portfolio-app/internal/domain/works"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened, migrated connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

// ------------------------------
// artworks
// ------------------------------

func (s *GormStore) CreateArtwork(ctx context.Context, a *works.Artwork) error {
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *GormStore) GetArtwork(ctx context.Context, id string) (works.Artwork, error) {
	var a works.Artwork
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return works.Artwork{}, translate(err)
	}
	return a, nil
}

func (s *GormStore) GetArtworkBySlug(ctx context.Context, slug string) (works.Artwork, error) {
	var a works.Artwork
	err := s.db.WithContext(ctx).
		Where("LOWER(REPLACE(title, ' ', '-')) = ?", works.NormalizeSlug(slug)).
		First(&a).Error
	if err != nil {
		return works.Artwork{}, translate(err)
	}
	return a, nil
}

func (s *GormStore) UpdateArtwork(ctx context.Context, id string, patch works.ArtworkPatch) (works.Artwork, error) {
	var out works.Artwork
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, "id = ?", id).Error; err != nil {
			return err
		}
		cols := patch.Columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&out).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return works.Artwork{}, translate(err)
	}
	return out, nil
}

// DeleteArtwork removes the artwork, detaches its children and drops its audio links.
func (s *GormStore) DeleteArtwork(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&works.Artwork{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&works.ArtworkAudio{}, "artwork_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&works.Artwork{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

func (s *GormStore) ListArtworks(ctx context.Context, p ListParams) (Page[works.Artwork], error) {
	p = p.Normalize()

	var total int64
	if err := s.listQuery(ctx, p).Count(&total).Error; err != nil {
		return Page[works.Artwork]{}, err
	}
	pages := totalPages(total, p.PageSize)
	page := clampPage(p.Page, pages)

	var items []works.Artwork
	err := s.listQuery(ctx, p).
		Order(orderBy(p.SortBy, p.SortOrder)).
		Limit(p.PageSize).
		Offset((page - 1) * p.PageSize).
		Find(&items).Error
	if err != nil {
		return Page[works.Artwork]{}, err
	}

	return Page[works.Artwork]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   p.PageSize,
		TotalPages: pages,
	}, nil
}

func (s *GormStore) listQuery(ctx context.Context, p ListParams) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&works.Artwork{})
	if p.Query != "" {
		like := "%" + escapeLike(p.Query) + "%"
		q = q.Where("(title ILIKE ? OR accessibility_description ILIKE ? OR tags @> ARRAY[?]::text[])", like, like, p.Query)
	}
	if p.Kind != "" {
		q = q.Where("artworks_type = ?", p.Kind)
	}
	switch p.Published {
	case "published":
		q = q.Where("published = ?", true)
	case "unpublished":
		q = q.Where("published = ?", false)
	}
	return q
}

func (s *GormStore) FindArtworks(ctx context.Context, aq ArtworkQuery) ([]works.Artwork, error) {
	q := s.db.WithContext(ctx).Model(&works.Artwork{})
	if aq.FamilyOf != "" {
		q = q.Where("(id = ? OR parent_id = ?)", aq.FamilyOf, aq.FamilyOf)
	}
	if aq.ChildrenOf != "" {
		q = q.Where("parent_id = ?", aq.ChildrenOf)
	}
	if aq.ExcludeID != "" {
		q = q.Where("id <> ?", aq.ExcludeID)
	}
	if aq.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if aq.Limit > 0 {
		q = q.Limit(aq.Limit)
	}

	var out []works.Artwork
	if err := q.Order("created DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) HasChildren(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&works.Artwork{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func orderBy(sortBy, sortOrder string) clause.OrderByColumn {
	col := "created"
	if sortBy == "title" {
		col = "title"
	}
	return clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: sortOrder != "asc"}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// ------------------------------
// audios
// ------------------------------

func (s *GormStore) CreateAudio(ctx context.Context, a *audio.Audio) error {
	return translate(s.db.WithContext(ctx).Create(a).Error)
}

func (s *GormStore) GetAudio(ctx context.Context, id string) (audio.Audio, error) {
	var a audio.Audio
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return audio.Audio{}, translate(err)
	}
	return a, nil
}

func (s *GormStore) ListAudios(ctx context.Context, tag string, publishedOnly bool) ([]audio.Audio, error) {
	q := s.db.WithContext(ctx).Model(&audio.Audio{})
	if tag = strings.TrimSpace(tag); tag != "" {
		q = q.Where("? = ANY(tags)", tag)
	}
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var out []audio.Audio
	if err := q.Order("created DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) UpdateAudio(ctx context.Context, id string, patch audio.AudioPatch) (audio.Audio, error) {
	var out audio.Audio
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			return err
		}
		cols := patch.Columns()
		if len(cols) == 0 {
			return nil
		}
		if err := tx.Model(&out).Updates(cols).Error; err != nil {
			return err
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return audio.Audio{}, translate(err)
	}
	return out, nil
}

func (s *GormStore) DeleteAudio(ctx context.Context, id string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&works.ArtworkAudio{}, "audio_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&audio.Audio{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

// ------------------------------
// links
// ------------------------------

func (s *GormStore) LinkAudio(ctx context.Context, artworkID, audioID string) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&works.Artwork{}, "id = ?", artworkID).Error; err != nil {
			return err
		}
		if err := tx.Select("id").First(&audio.Audio{}, "id = ?", audioID).Error; err != nil {
			return err
		}
		link := works.ArtworkAudio{ArtworkID: artworkID, AudioID: audioID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	}))
}

func (s *GormStore) UnlinkAudio(ctx context.Context, artworkID, audioID string) error {
	res := s.db.WithContext(ctx).Delete(&works.ArtworkAudio{}, "artwork_id = ? AND audio_id = ?", artworkID, audioID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListArtworkAudios(ctx context.Context, artworkID string, publishedOnly bool) ([]audio.Audio, error) {
	q := s.db.WithContext(ctx).
		Model(&audio.Audio{}).
		Joins("JOIN artwork_audios ON artwork_audios.audio_id = audios.id").
		Where("artwork_audios.artwork_id = ?", artworkID)
	if publishedOnly {
		q = q.Where("audios.published = ?", true)
	}
	var out []audio.Audio
	if err := q.Order("artwork_audios.created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ------------------------------
// users
// ------------------------------

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return users.User{}, translate(err)
	}
	return u, nil
}

func (s *GormStore) GetUserByGoogleSub(ctx context.Context, sub string) (users.User, error) {
	var u users.User
	if err := s.db.WithContext(ctx).Where("google_sub = ?", sub).First(&u).Error; err != nil {
		return users.User{}, translate(err)
	}
	return u, nil
}

// SaveUser inserts u when it has no id yet, otherwise updates it.
func (s *GormStore) SaveUser(ctx context.Context, u *users.User) error {
	return translate(s.db.WithContext(ctx).Save(u).Error)
}
