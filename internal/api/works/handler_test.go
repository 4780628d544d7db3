package works

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/gallery"
	"portfolio-app/internal/pipeline"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	runs    []pipeline.Request
	uploads []pipeline.UploadRequest
	result  pipeline.Result
	err     error
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (pipeline.Result, error) {
	f.runs = append(f.runs, req)
	return f.result, f.err
}

func (f *fakeRunner) Upload(_ context.Context, req pipeline.UploadRequest) (pipeline.Result, error) {
	f.uploads = append(f.uploads, req)
	return f.result, f.err
}

// asOwner stands in for the JWT middlewares.
func asOwner(c *gin.Context) {
	if c.GetHeader("X-Owner") == "1" {
		c.Set("user_id", uint(1))
		c.Set("email", "artist@example.com")
		c.Set("role", "owner")
	}
	c.Set("request_id", "req-42")
	c.Next()
}

func setup(t *testing.T) (*gin.Engine, *store.MemoryStore, *fakeRunner) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	svc := gallery.NewService(s, gallery.NewRules(s))
	runner := &fakeRunner{result: pipeline.Result{Status: pipeline.StatusSuccess, Message: "ok"}}
	h := NewHandler(svc, gallery.NewResolver(s), runner, s, zerolog.Nop())

	r := gin.New()
	r.Use(asOwner)
	r.GET("/artworks", h.List)
	r.GET("/artworks/slug/:slug", h.GetBySlug)
	r.GET("/artworks/:id", h.Get)
	r.GET("/artworks/:id/related", h.Related)
	r.GET("/artworks/:id/theme", h.Theme)
	r.GET("/artworks/:id/audios", h.Audios)
	r.POST("/artworks", h.Create)
	r.POST("/artworks/upload", h.Upload)
	r.PUT("/artworks/:id", h.Update)
	r.DELETE("/artworks/:id", h.Delete)
	r.POST("/artworks/:id/publish", h.Publish)
	r.POST("/artworks/:id/unpublish", h.Unpublish)
	r.POST("/artworks/:id/regenerate", h.Regenerate)
	r.POST("/artworks/:id/audios/:audioId", h.LinkAudio)
	r.DELETE("/artworks/:id/audios/:audioId", h.UnlinkAudio)
	return r, s, runner
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

func seed(t *testing.T, s *store.MemoryStore, a works.Artwork) works.Artwork {
	t.Helper()
	require.NoError(t, s.CreateArtwork(context.Background(), &a))
	return a
}

func TestListHidesDraftsFromAnonymous(t *testing.T) {
	r, s, _ := setup(t)
	seed(t, s, works.Artwork{Title: "Shown", Kind: works.KindHuman, Published: true})
	seed(t, s, works.Artwork{Title: "Hidden", Kind: works.KindHuman})

	w := do(r, http.MethodGet, "/artworks?published=unpublished", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page store.Page[works.Artwork]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Shown", page.Items[0].Title)

	w = do(r, http.MethodGet, "/artworks", true, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
}

func TestListEmptyIsArray(t *testing.T) {
	r, _, _ := setup(t)
	w := do(r, http.MethodGet, "/artworks", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestGetDraftIsNotFoundForAnonymous(t *testing.T) {
	r, s, _ := setup(t)
	a := seed(t, s, works.Artwork{Title: "Draft", Kind: works.KindHuman})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/artworks/"+a.ID, false, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/artworks/"+a.ID, true, nil).Code)

	w := do(r, http.MethodGet, "/artworks/slug/DRAFT", true, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), a.ID)
}

func TestRelatedAndTheme(t *testing.T) {
	r, s, _ := setup(t)
	root := seed(t, s, works.Artwork{Title: "Root", Kind: works.KindHuman, Published: true})
	child := seed(t, s, works.Artwork{Title: "Child", Kind: works.KindAI, ParentID: &root.ID, Published: true})

	w := do(r, http.MethodGet, "/artworks/"+child.ID+"/related", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []works.Artwork `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, root.ID, body.Data[0].ID)

	w = do(r, http.MethodGet, "/artworks/"+root.ID+"/theme", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

func TestCreateValidatesDerivation(t *testing.T) {
	r, s, _ := setup(t)
	root := seed(t, s, works.Artwork{Title: "Root", Kind: works.KindHuman})

	w := do(r, http.MethodPost, "/artworks", true, gin.H{"title": "Copy", "type": "human", "parentId": root.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/artworks", true, gin.H{"title": "Copy", "type": "ai", "parentId": root.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/artworks", true, gin.H{"title": "Copy", "type": "ai"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/artworks", true, gin.H{"title": "Other", "type": "sculpture"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/artworks", false, gin.H{"title": "Anon", "type": "human"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdatePublishDelete(t *testing.T) {
	r, s, _ := setup(t)
	a := seed(t, s, works.Artwork{Title: "Before", Kind: works.KindHuman})

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/artworks/"+a.ID, true, gin.H{}).Code)

	w := do(r, http.MethodPut, "/artworks/"+a.ID, true, gin.H{"title": "After", "tags": []string{"ink"}})
	require.Equal(t, http.StatusOK, w.Code)
	got, err := s.GetArtwork(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, []string{"ink"}, []string(got.Tags))

	w = do(r, http.MethodPost, "/artworks/"+a.ID+"/publish", true, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/artworks/"+a.ID, false, nil).Code)

	w = do(r, http.MethodPost, "/artworks/"+a.ID+"/unpublish", true, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unpublished"`)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/artworks/"+a.ID, true, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/artworks/"+a.ID, true, nil).Code)
}

func TestAudioLinks(t *testing.T) {
	r, s, _ := setup(t)
	ctx := context.Background()
	a := seed(t, s, works.Artwork{Title: "Piece", Kind: works.KindHuman, Published: true})
	pub := audio.Audio{Title: "Live mix", Kind: audio.KindMix, Published: true}
	draft := audio.Audio{Title: "Rough cut", Kind: audio.KindMix}
	require.NoError(t, s.CreateAudio(ctx, &pub))
	require.NoError(t, s.CreateAudio(ctx, &draft))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/artworks/"+a.ID+"/audios/"+pub.ID, true, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/artworks/"+a.ID+"/audios/"+draft.ID, true, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/artworks/"+a.ID+"/audios/missing", true, nil).Code)

	var body struct {
		Data []audio.Audio `json:"data"`
	}
	w := do(r, http.MethodGet, "/artworks/"+a.ID+"/audios", false, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)

	w = do(r, http.MethodGet, "/artworks/"+a.ID+"/audios", true, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/artworks/"+a.ID+"/audios/"+pub.ID, true, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/artworks/"+a.ID+"/audios/"+pub.ID, true, nil).Code)
}

func uploadRequest(t *testing.T, size int, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if size >= 0 {
		fw, err := mw.CreateFormFile("file", "piece.png")
		require.NoError(t, err)
		_, err = fw.Write(bytes.Repeat([]byte{0x1}, size))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/artworks/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Owner", "1")
	return req
}

func TestUploadPassesFormToPipeline(t *testing.T) {
	r, _, runner := setup(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, 64, map[string]string{
		"title":       " Teacups ",
		"type":        "ai",
		"information": "made on a train",
		"parentId":    "parent-1",
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, runner.uploads, 1)

	got := runner.uploads[0]
	assert.Equal(t, "req-42", got.RequestID)
	assert.Equal(t, "Teacups", got.Title)
	assert.Equal(t, works.KindAI, got.Kind)
	assert.Equal(t, uint(1), got.OwnerID)
	assert.Equal(t, "made on a train", got.Instructions)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, "parent-1", *got.ParentID)
	assert.Len(t, got.Data, 64)
}

func TestUploadRejectsMissingAndOversizedFiles(t *testing.T) {
	r, _, runner := setup(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, -1, map[string]string{"type": "human"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, maxUploadBytes+1, map[string]string{"type": "human"}))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, runner.uploads)
}

func TestPipelineFailureStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{pipeline.ErrInvalidRequest, http.StatusBadRequest},
		{pipeline.ErrBusy, http.StatusConflict},
		{fmt.Errorf("%w: %w", pipeline.ErrPersistence, store.ErrConflict), http.StatusConflict},
		{pipeline.ErrPersistence, http.StatusInternalServerError},
		{pipeline.ErrSpeechSynthesis, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			r, _, runner := setup(t)
			runner.result = pipeline.Result{Status: pipeline.StatusError, Message: "Failed", Err: tc.err}

			w := do(r, http.MethodPost, "/artworks/abc/regenerate", true, gin.H{"information": "warmer"})
			assert.Equal(t, tc.want, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"error"`)
			require.Len(t, runner.runs, 1)
			assert.Equal(t, "abc", runner.runs[0].ExistingID)
			assert.Equal(t, "warmer", runner.runs[0].Instructions)
		})
	}
}

func TestRegenerateCancelled(t *testing.T) {
	r, _, runner := setup(t)
	runner.err = context.Canceled

	w := do(r, http.MethodPost, "/artworks/abc/regenerate", true, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	runner.err = errors.New("redis: connection refused")
	w = do(r, http.MethodPost, "/artworks/abc/regenerate", true, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
