package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) adminCookie() *http.Cookie {
	e.t.Helper()
	resp, _ := e.do(http.MethodPost, "/admin/login", `{"password":"`+adminPassword+`"}`)
	require.Equal(e.t, http.StatusOK, resp.StatusCode)
	c := cookieNamed(resp, AdminCookie)
	require.NotNil(e.t, c)
	return &http.Cookie{Name: AdminCookie, Value: c.Value}
}

func (e *env) signup(email string) string {
	e.t.Helper()
	resp, _ := e.do(http.MethodPost, "/auth/signup", `{"email":"`+email+`"}`)
	require.Equal(e.t, http.StatusOK, resp.StatusCode)

	resp, body := e.do(http.MethodGet, "/admin/users", "", e.adminCookie())
	require.Equal(e.t, http.StatusOK, resp.StatusCode)
	for _, raw := range body["users"].([]any) {
		u := raw.(map[string]any)
		if u["email"] == email {
			return u["id"].(string)
		}
	}
	e.t.Fatalf("user %s not listed", email)
	return ""
}

func TestAdminLogin(t *testing.T) {
	e := newEnv(t)

	resp, body := e.do(http.MethodPost, "/admin/login", `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid password", body["error"])

	resp, _ = e.do(http.MethodPost, "/admin/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	c := e.adminCookie()
	assert.NotEmpty(t, c.Value)
}

func TestAdminRoutesRequireCredential(t *testing.T) {
	e := newEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/admin/users"},
		{http.MethodGet, "/admin/users/some-id"},
		{http.MethodPatch, "/admin/users/some-id"},
		{http.MethodDelete, "/admin/users/some-id"},
		{http.MethodPost, "/admin/bookmarks"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			resp, body := e.do(tc.method, tc.path, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Unauthorized", body["error"])
		})
	}
}

func TestAdminRejectsSessionCredential(t *testing.T) {
	e := newEnv(t)

	e.do(http.MethodPost, "/auth/signup", `{"email":"u@example.com"}`)
	resp, _ := e.do(http.MethodPost, "/auth/verify", `{"token":"`+e.pendingToken("u@example.com")+`","email":"u@example.com"}`)
	session := cookieNamed(resp, SessionCookie)
	require.NotNil(t, session)

	resp, _ = e.do(http.MethodGet, "/admin/users", "", &http.Cookie{Name: AdminCookie, Value: session.Value})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminListAndGet(t *testing.T) {
	e := newEnv(t)
	id := e.signup("a@example.com")
	e.signup("b@example.com")

	resp, body := e.do(http.MethodGet, "/admin/users", "", e.adminCookie())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := body["users"].([]any)
	require.Len(t, list, 2)
	var a map[string]any
	for _, raw := range list {
		if u := raw.(map[string]any); u["id"] == id {
			a = u
		}
	}
	require.NotNil(t, a)
	assert.Equal(t, "a@example.com", a["email"])
	assert.Equal(t, false, a["emailVerified"])
	assert.NotEmpty(t, a["createdAt"])
	assert.Nil(t, a["lastSignIn"])

	resp, body = e.do(http.MethodGet, "/admin/users/"+id, "", e.adminCookie())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["user"].(map[string]any)["id"])

	resp, body = e.do(http.MethodGet, "/admin/users/missing", "", e.adminCookie())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["error"])
}

func TestAdminUpdateUser(t *testing.T) {
	e := newEnv(t)
	id := e.signup("a@example.com")
	e.signup("b@example.com")
	admin := e.adminCookie()

	resp, body := e.do(http.MethodPatch, "/admin/users/"+id, `{"email":" "}`, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required", body["error"])

	resp, body = e.do(http.MethodPatch, "/admin/users/"+id, `{"email":"nope"}`, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid email format", body["error"])

	resp, body = e.do(http.MethodPatch, "/admin/users/"+id, `{"email":"B@example.com"}`, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email is already taken", body["error"])

	resp, body = e.do(http.MethodPatch, "/admin/users/missing", `{"email":"c@example.com"}`, admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["error"])

	resp, body = e.do(http.MethodPatch, "/admin/users/"+id, `{"email":"New@Example.com"}`, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User updated successfully", body["message"])
	assert.Equal(t, "new@example.com", body["user"].(map[string]any)["email"])
}

func TestAdminDeleteUser(t *testing.T) {
	e := newEnv(t)
	id := e.signup("a@example.com")
	admin := e.adminCookie()

	resp, body := e.do(http.MethodDelete, "/admin/users/"+id, "", admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User deleted successfully", body["message"])

	resp, _ = e.do(http.MethodDelete, "/admin/users/"+id, "", admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminLogout(t *testing.T) {
	e := newEnv(t)

	resp, _ := e.do(http.MethodPost, "/admin/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := cookieNamed(resp, AdminCookie)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
}

func TestAdminCreateBookmark(t *testing.T) {
	e := newEnv(t)
	admin := e.adminCookie()

	resp, body := e.do(http.MethodPost, "/admin/bookmarks",
		`{"url":"https://go.dev","title":"Go","slug":"go-dev","description":"The Go site"}`, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	bm := body["bookmark"].(map[string]any)
	assert.Equal(t, "go-dev", bm["slug"])
	assert.Equal(t, "The Go site", bm["description"])
	assert.Equal(t, float64(0), bm["favoriteCount"])
	assert.NotZero(t, bm["id"])

	resp, body = e.do(http.MethodPost, "/admin/bookmarks", `{"url":"https://go.dev","title":"Go","slug":"other"}`, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "A bookmark with this URL or slug already exists", body["error"])

	for name, payload := range map[string]string{
		"missing title": `{"url":"https://a.example","slug":"a"}`,
		"bad slug":      `{"url":"https://a.example","title":"A","slug":"Not A Slug"}`,
		"bad url":       `{"url":"not a url","title":"A","slug":"a"}`,
		"bad favicon":   `{"url":"https://a.example","title":"A","slug":"a","favicon":""}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp, body := e.do(http.MethodPost, "/admin/bookmarks", payload, admin)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, body["error"], "Invalid bookmark")
		})
	}
}
