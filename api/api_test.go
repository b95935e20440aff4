package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/pulse-backend/database"
	"github.com/rpupo63/pulse-backend/models"
	"github.com/rpupo63/pulse-backend/pagecache"
)

type testApp struct {
	router http.Handler
	db     database.Database
	gormDB *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.New().String())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))

	cache, err := pagecache.Open("", time.Minute)
	require.NoError(t, err)

	db := database.New(gormDB)
	router := NewRouter(db, cache, withConfig(map[string]string{
		"PAGE_SIZE":  "10",
		"JWT_SECRET": "test-secret",
		"MEDIA_ROOT": t.TempDir(),
	}))

	t.Cleanup(func() {
		cache.Close()
		if sqlDB, err := gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testApp{router: router, db: db, gormDB: gormDB}
}

// do issues a request against the router and decodes the JSON response
// into out when out is non-nil.
func (a *testApp) do(t *testing.T, method, path, token string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out),
			"response body: %s", rec.Body.String())
	}
	return rec
}

// signup registers a user through the API and returns their token and
// identity.
func (a *testApp) signup(t *testing.T, username string) (string, models.User) {
	t.Helper()

	var resp TokenResponse
	rec := a.do(t, http.MethodPost, "/signup", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "s3cretpass",
	}, &resp)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	require.NotEmpty(t, resp.Token)

	return resp.Token, resp.User
}

func TestSignupAndLogin(t *testing.T) {
	app := newTestApp(t)

	token, user := app.signup(t, "alice")
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)

	t.Run("login with correct password", func(t *testing.T) {
		var resp TokenResponse
		rec := app.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "s3cretpass",
		}, &resp)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, user.ID, resp.User.ID)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "alice",
			"password": "wrongpass",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("login with unknown user", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/login", "", map[string]string{
			"username": "nobody",
			"password": "s3cretpass",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/signup", "", map[string]string{
			"username": "alice",
			"email":    "alice2@example.com",
			"password": "s3cretpass",
		}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	token, user := app.signup(t, "writer")

	count, err := app.db.PostRepo().Count()
	require.NoError(t, err)
	require.EqualValues(t, 0, count)

	var created models.Post
	rec := app.do(t, http.MethodPost, "/posts", token, map[string]any{
		"text": "my first post",
	}, &created)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	// The author comes from the token, never from the payload.
	assert.Equal(t, user.ID, created.AuthorID)
	assert.Equal(t, "my first post", created.Text)
	assert.False(t, created.PubDate.IsZero())

	count, err = app.db.PostRepo().Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreatePostRejections(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup(t, "writer")

	t.Run("without token", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/posts", "", map[string]any{"text": "hi"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank text", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/posts", token, map[string]any{"text": "   "}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("nonexistent group", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/posts", token, map[string]any{
			"text":    "hi",
			"groupId": 999,
		}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	count, err := app.db.PostRepo().Count()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestOnlyAuthorCanEditOrDelete(t *testing.T) {
	app := newTestApp(t)
	authorToken, _ := app.signup(t, "author")
	strangerToken, _ := app.signup(t, "stranger")

	var post models.Post
	rec := app.do(t, http.MethodPost, "/posts", authorToken, map[string]any{"text": "original"}, &post)
	require.Equal(t, http.StatusCreated, rec.Code)

	postPath := fmt.Sprintf("/posts/%d", post.ID)

	rec = app.do(t, http.MethodPut, postPath, strangerToken, map[string]any{"text": "hijacked"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodDelete, postPath, strangerToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The post is untouched.
	var detail PostDetailResponse
	rec = app.do(t, http.MethodGet, postPath, "", nil, &detail)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "original", detail.Post.Text)

	// The author can do both.
	var updated models.Post
	rec = app.do(t, http.MethodPut, postPath, authorToken, map[string]any{"text": "edited"}, &updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "edited", updated.Text)

	rec = app.do(t, http.MethodDelete, postPath, authorToken, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, postPath, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments(t *testing.T) {
	app := newTestApp(t)
	authorToken, _ := app.signup(t, "author")
	commenterToken, commenter := app.signup(t, "commenter")

	var post models.Post
	rec := app.do(t, http.MethodPost, "/posts", authorToken, map[string]any{"text": "discuss"}, &post)
	require.Equal(t, http.StatusCreated, rec.Code)

	commentsPath := fmt.Sprintf("/posts/%d/comments", post.ID)

	var comment models.Comment
	rec = app.do(t, http.MethodPost, commentsPath, commenterToken, map[string]any{"text": "great point"}, &comment)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, commenter.ID, comment.AuthorID)

	t.Run("appears on the post detail", func(t *testing.T) {
		var detail PostDetailResponse
		rec := app.do(t, http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), "", nil, &detail)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, detail.Comments, 1)
		assert.Equal(t, "great point", detail.Comments[0].Text)
		assert.Equal(t, "commenter", detail.Comments[0].Author.Username)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, commentsPath, "", map[string]any{"text": "anon"}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("blank text rejected", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, commentsPath, commenterToken, map[string]any{"text": " "}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown post yields 404", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/posts/9999/comments", commenterToken, map[string]any{"text": "hi"}, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGroups(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup(t, "admin")

	var group models.Group
	rec := app.do(t, http.MethodPost, "/groups", token, map[string]string{
		"title":       "Cats",
		"slug":        "cats",
		"description": "feline content",
	}, &group)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	assert.Equal(t, "cats", group.Slug)

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/groups", token, map[string]string{
			"title": "More Cats",
			"slug":  "cats",
		}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("group feed filters by group", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/posts", token, map[string]any{
			"text":    "a cat post",
			"groupId": group.ID,
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = app.do(t, http.MethodPost, "/posts", token, map[string]any{
			"text": "an ungrouped post",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var feed GroupFeedResponse
		rec = app.do(t, http.MethodGet, "/group/cats", "", nil, &feed)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, group.ID, feed.Group.ID)
		require.Len(t, feed.Page.Items, 1)
		assert.Equal(t, "a cat post", feed.Page.Items[0].Text)
	})

	t.Run("unknown slug yields 404", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/group/no-such-group", "", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfileAndFollow(t *testing.T) {
	app := newTestApp(t)
	readerToken, _ := app.signup(t, "reader")
	authorToken, _ := app.signup(t, "author")

	rec := app.do(t, http.MethodPost, "/posts", authorToken, map[string]any{"text": "by author"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("anonymous profile view", func(t *testing.T) {
		var profile ProfileResponse
		rec := app.do(t, http.MethodGet, "/profile/author", "", nil, &profile)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "author", profile.Author.Username)
		assert.Len(t, profile.Page.Items, 1)
		assert.False(t, profile.Following)
		assert.EqualValues(t, 0, profile.FollowingCount)
	})

	t.Run("garbage token never blocks the public profile", func(t *testing.T) {
		var profile ProfileResponse
		rec := app.do(t, http.MethodGet, "/profile/author", "not-a-token", nil, &profile)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, profile.Following)
	})

	t.Run("follow feed starts empty", func(t *testing.T) {
		var feed FeedResponse
		rec := app.do(t, http.MethodGet, "/follow", readerToken, nil, &feed)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, feed.Page.Items)
	})

	rec = app.do(t, http.MethodPost, "/profile/author/follow", readerToken, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("profile reports following", func(t *testing.T) {
		var profile ProfileResponse
		rec := app.do(t, http.MethodGet, "/profile/author", readerToken, nil, &profile)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, profile.Following)
	})

	t.Run("follow feed contains followed author's posts", func(t *testing.T) {
		var feed FeedResponse
		rec := app.do(t, http.MethodGet, "/follow", readerToken, nil, &feed)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, feed.Page.Items, 1)
		assert.Equal(t, "by author", feed.Page.Items[0].Text)
	})

	t.Run("self follow leaves the edge count untouched", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/profile/reader/follow", readerToken, nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		count, err := app.db.FollowRepo().Count()
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("repeated follow is idempotent", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/profile/author/follow", readerToken, nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		count, err := app.db.FollowRepo().Count()
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("profile counts how many authors the user follows", func(t *testing.T) {
		var profile ProfileResponse
		rec := app.do(t, http.MethodGet, "/profile/reader", "", nil, &profile)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.EqualValues(t, 1, profile.FollowingCount)
	})

	rec = app.do(t, http.MethodDelete, "/profile/author/follow", readerToken, nil, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("unfollow empties the feed again", func(t *testing.T) {
		var feed FeedResponse
		rec := app.do(t, http.MethodGet, "/follow", readerToken, nil, &feed)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, feed.Page.Items)
	})

	t.Run("unknown profile yields 404", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/profile/ghost", "", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestIndexFeedCaching(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup(t, "writer")

	rec := app.do(t, http.MethodPost, "/posts", token, map[string]any{"text": "first"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	first := app.do(t, http.MethodGet, "/", "", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get("X-Cache"))

	rec = app.do(t, http.MethodPost, "/posts", token, map[string]any{"text": "second"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	// The new post must not appear until the cache is cleared; the
	// cached page is replayed byte for byte.
	stale := app.do(t, http.MethodGet, "/", "", nil, nil)
	require.Equal(t, http.StatusOK, stale.Code)
	assert.Equal(t, "HIT", stale.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.Bytes(), stale.Body.Bytes())

	rec = app.do(t, http.MethodPost, "/internal/cache/clear", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fresh FeedResponse
	rec = app.do(t, http.MethodGet, "/", "", nil, &fresh)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	require.Len(t, fresh.Page.Items, 2)
	assert.Equal(t, "second", fresh.Page.Items[0].Text)
}

func TestIndexPaginationThroughAPI(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signup(t, "writer")

	for i := 0; i < 13; i++ {
		rec := app.do(t, http.MethodPost, "/posts", token, map[string]any{
			"text": fmt.Sprintf("post %d", i),
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := app.do(t, http.MethodPost, "/internal/cache/clear", token, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var firstPage FeedResponse
	rec = app.do(t, http.MethodGet, "/", "", nil, &firstPage)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, firstPage.Page.Items, 10)
	assert.EqualValues(t, 13, firstPage.Page.TotalItems)

	var secondPage FeedResponse
	rec = app.do(t, http.MethodGet, "/?page=2", "", nil, &secondPage)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, secondPage.Page.Items, 3)

	// Out-of-range and garbage page values degrade gracefully.
	var clamped FeedResponse
	rec = app.do(t, http.MethodGet, "/?page=99", "", nil, &clamped)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, clamped.Page.Number)

	var defaulted FeedResponse
	rec = app.do(t, http.MethodGet, "/?page=banana", "", nil, &defaulted)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, defaulted.Page.Number)
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	var resp map[string]any
	rec := app.do(t, http.MethodGet, "/no/such/route", "", nil, &resp)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", resp["status"])
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestStatusEndpoint(t *testing.T) {
	app := newTestApp(t)

	var resp map[string]string
	rec := app.do(t, http.MethodGet, "/status", "", nil, &resp)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp["status"])
	assert.NotEmpty(t, resp["uptime"])
}
