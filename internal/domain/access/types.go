package access

import "portfolio-app/internal/domain/users"

// Viewer is whoever is making the request. The zero value is anonymous.
type Viewer struct {
	UserID uint
	Email  string
	Role   string
}

func Anonymous() Viewer {
	return Viewer{}
}

func Owner(id uint, email string) Viewer {
	return Viewer{UserID: id, Email: email, Role: users.RoleOwner}
}

func (v Viewer) Authenticated() bool {
	return v.UserID != 0
}

// CanSeeDrafts reports whether unpublished entries are visible to v.
func (v Viewer) CanSeeDrafts() bool {
	return v.Authenticated()
}

func (v Viewer) CanEdit() bool {
	return v.Authenticated() && v.Role == users.RoleOwner
}

type EditorMode string

const (
	EditorFull EditorMode = "full"
	EditorOff  EditorMode = "off"
)

const (
	CapView       = "view"
	CapViewDrafts = "view_drafts"
	CapEdit       = "edit"
	CapUpload     = "upload"
)
