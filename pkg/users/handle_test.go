package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(kc *fakeAdminClient) http.Handler {
	handle := NewHandle(NewUserService(kc))
	r := chi.NewRouter()
	r.Route("/api/users", func(r chi.Router) {
		handle.RegisterRoutes(r)
	})
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestListUsersEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	kc.addUser("id-1", "alice", "admin")
	kc.addUser("id-2", "bob", "user")
	handler := newTestHandler(kc)

	rec := doRequest(t, handler, http.MethodGet, "/api/users?exclude=id-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var result []User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 1)
	assert.Equal(t, "bob", result[0].Username)
}

func TestGetUserByUsernameEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	kc.addUser("id-1", "alice", "developer")
	handler := newTestHandler(kc)

	rec := doRequest(t, handler, http.MethodGet, "/api/users/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var user User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, "id-1", user.ID)
	assert.Equal(t, []string{"developer"}, user.Roles)
}

func TestGetUserByUsernameNotFoundEndpoint(t *testing.T) {
	handler := newTestHandler(newFakeAdminClient())

	rec := doRequest(t, handler, http.MethodGet, "/api/users/nobody", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestCreateUserEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	handler := newTestHandler(kc)

	body := `{"id":1,"username":"alice","email":"alice@example.com","firstName":"Alice","lastName":"Doe","password":"s3cret","enabled":true}`
	rec := doRequest(t, handler, http.MethodPost, "/api/users", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "id-1", rec.Body.String())
	assert.Equal(t, []string{"USER"}, kc.assignedRoleNames("id-1"))
}

func TestCreateUserDuplicateEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	kc.addUser("id-1", "alice")
	handler := newTestHandler(kc)

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret"}`
	rec := doRequest(t, handler, http.MethodPost, "/api/users", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username already exists")
}

func TestCreateUserMissingFieldsEndpoint(t *testing.T) {
	handler := newTestHandler(newFakeAdminClient())

	rec := doRequest(t, handler, http.MethodPost, "/api/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserIncompleteProvisioningEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	kc.resetPasswordErr = errors.New("credential store unavailable")
	handler := newTestHandler(kc)

	body := `{"username":"alice","email":"alice@example.com","password":"s3cret"}`
	rec := doRequest(t, handler, http.MethodPost, "/api/users", body)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "id-1")
}

func TestUpdateUserEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	handler := newTestHandler(kc)

	body := `{"username":"ignored","email":"new@example.com","firstName":"A","lastName":"B","password":"new-pass"}`
	rec := doRequest(t, handler, http.MethodPut, "/api/users/77b9a1a6-7aa7-47b1-9d0a-7f3f1a6f2f10", body)

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
}

func TestUpdateUserInvalidIDEndpoint(t *testing.T) {
	handler := newTestHandler(newFakeAdminClient())

	rec := doRequest(t, handler, http.MethodPut, "/api/users/not-a-uuid", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserProviderFailureEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	kc.updateErr = errors.New("provider down")
	handler := newTestHandler(kc)

	rec := doRequest(t, handler, http.MethodPut, "/api/users/77b9a1a6-7aa7-47b1-9d0a-7f3f1a6f2f10", `{"email":"x@example.com","password":"p"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteUserEndpoint(t *testing.T) {
	kc := newFakeAdminClient()
	userID := "77b9a1a6-7aa7-47b1-9d0a-7f3f1a6f2f10"
	kc.addUser(userID, "alice")
	handler := newTestHandler(kc)

	rec := doRequest(t, handler, http.MethodDelete, "/api/users/"+userID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
}

func TestDeleteUserNonexistentEndpoint(t *testing.T) {
	handler := newTestHandler(newFakeAdminClient())

	rec := doRequest(t, handler, http.MethodDelete, "/api/users/77b9a1a6-7aa7-47b1-9d0a-7f3f1a6f2f10", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}
