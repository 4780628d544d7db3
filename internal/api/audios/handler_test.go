package audios

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewHandler(store.NewMemoryStore(), zerolog.Nop())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Owner") == "1" {
			c.Set("user_id", uint(7))
			c.Set("role", "owner")
		}
		c.Next()
	})
	r.GET("/audios", h.List)
	r.GET("/audios/:id", h.Get)
	r.POST("/audios", h.Create)
	r.PUT("/audios/:id", h.Update)
	r.DELETE("/audios/:id", h.Delete)
	return r
}

func do(r http.Handler, method, path string, owner bool, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if owner {
		req.Header.Set("X-Owner", "1")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createAudio(t *testing.T, r http.Handler, body gin.H) audio.Audio {
	t.Helper()
	w := do(r, http.MethodPost, "/audios", true, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var a audio.Audio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &a))
	return a
}

func TestCreateValidates(t *testing.T) {
	r := setup(t)

	a := createAudio(t, r, gin.H{"title": " Night mix ", "type": "mix", "tags": []string{"ambient", " ", "Ambient", "live"}})
	assert.Equal(t, "Night mix", a.Title)
	assert.Equal(t, uint(7), a.UserID)
	assert.Equal(t, []string{"ambient", "live"}, []string(a.Tags))
	assert.False(t, a.Published)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/audios", true, gin.H{"title": "x", "type": "album"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/audios", true, gin.H{"title": "   ", "type": "mix"}).Code)
	assert.Equal(t, http.StatusConflict, do(r, http.MethodPost, "/audios", true, gin.H{"title": "Night mix", "type": "playlist"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/audios", false, gin.H{"title": "y", "type": "mix"}).Code)
}

func TestListFiltersByTagAndVisibility(t *testing.T) {
	r := setup(t)
	createAudio(t, r, gin.H{"title": "A", "type": "mix", "tags": []string{"ambient"}, "published": true})
	createAudio(t, r, gin.H{"title": "B", "type": "playlist", "tags": []string{"ambient"}})
	createAudio(t, r, gin.H{"title": "C", "type": "mix", "tags": []string{"techno"}, "published": true})

	var body struct {
		Data []audio.Audio `json:"data"`
	}
	w := do(r, http.MethodGet, "/audios?tag=ambient", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "A", body.Data[0].Title)

	w = do(r, http.MethodGet, "/audios?tag=ambient", true, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)

	w = do(r, http.MethodGet, "/audios?tag=jazz", false, nil)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestGetUpdateDelete(t *testing.T) {
	r := setup(t)
	a := createAudio(t, r, gin.H{"title": "Draft", "type": "mix"})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/audios/"+a.ID, false, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/audios/"+a.ID, true, nil).Code)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/audios/"+a.ID, true, gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/audios/"+a.ID, true, gin.H{"type": "album"}).Code)

	w := do(r, http.MethodPut, "/audios/"+a.ID, true, gin.H{"published": true, "description": "late set"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/audios/"+a.ID, false, nil).Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/audios/"+a.ID, true, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/audios/"+a.ID, true, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/audios/"+a.ID, true, gin.H{"title": "z"}).Code)
}
