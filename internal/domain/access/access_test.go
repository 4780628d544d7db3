package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymousPolicy(t *testing.T) {
	p := ComputePolicy(Anonymous())

	assert.False(t, p.Authenticated)
	assert.Equal(t, EditorOff, p.EditorMode)
	assert.Equal(t, []string{CapView}, p.Capabilities)
	assert.False(t, Anonymous().CanSeeDrafts())
}

func TestOwnerPolicy(t *testing.T) {
	v := Owner(7, "artist@example.com")
	p := ComputePolicy(v)

	assert.True(t, p.Authenticated)
	assert.Equal(t, EditorFull, p.EditorMode)
	assert.ElementsMatch(t, []string{CapView, CapViewDrafts, CapEdit, CapUpload}, p.Capabilities)
	assert.True(t, v.Can(CapUpload))
}

func TestAuthenticatedNonOwnerCannotEdit(t *testing.T) {
	v := Viewer{UserID: 3, Role: "guest"}

	assert.True(t, v.CanSeeDrafts())
	assert.False(t, v.CanEdit())
	assert.False(t, v.Can(CapEdit))
}
