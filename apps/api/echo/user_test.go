package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darasa/backoffice/core/user"
	testutil "github.com/darasa/backoffice/tests"
)

func TestUserAPI_register(t *testing.T) {
	ta := setupServer(t)
	token := ta.token(t, []string{user.RoleAdmin})

	body, _ := json.Marshal(user.NewUser{
		Name:            "Awe Lmao",
		Username:        "awelmao",
		Email:           "awe@test.cd",
		Password:        "S3cr3t!pwd",
		PasswordConfirm: "S3cr3t!pwd",
		Roles:           []string{user.RoleTutor},
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", token, body)
	ta.app.ServeHTTP(rec, req)
	if !assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String()) {
		return
	}

	var usr user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
		t.Fatalf("unmarshalling user: %v", err)
	}
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "awelmao", usr.Username)
	assert.True(t, usr.IsActive)
	assert.ElementsMatch(t, []string{user.RoleTutor}, usr.Roles)

	// duplicate username is a field error
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/register", token, body)
	ta.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")
}

func TestUserAPI_queryAndRoles(t *testing.T) {
	ta := setupServer(t)
	token := ta.token(t, []string{user.RoleAdmin})

	tutor := testutil.CreateUser(t, ta.usrRepo, "Tutor", "tutor1", "tutor1@test.cd", "", []string{user.RoleTutor}, true)
	testutil.CreateUser(t, ta.usrRepo, "Student", "student1", "student1@test.cd", "", []string{user.RoleStudent}, true)

	req, rec := newAuthRequest(http.MethodGet, "/v1/users?role="+user.RoleTutor, token)
	ta.app.ServeHTTP(rec, req)
	if !assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String()) {
		return
	}
	var users []user.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("unmarshalling users: %v", err)
	}
	if assert.Len(t, users, 1) {
		assert.Equal(t, tutor.ID, users[0].ID)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/users/roles", token)
	ta.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	var roles []user.Role
	if err := json.Unmarshal(rec.Body.Bytes(), &roles); err != nil {
		t.Fatalf("unmarshalling roles: %v", err)
	}
	values := make([]string, len(roles))
	for i, r := range roles {
		values[i] = r.Value
	}
	assert.ElementsMatch(t, user.AllRoles, values)
}

func TestUserAPI_destroy_self(t *testing.T) {
	ta := setupServer(t)

	admin := testutil.CreateUser(t, ta.usrRepo, "Admin", "selfadmin", "self@test.cd", "", []string{user.RoleAdmin}, true)
	token, err := GenerateToken(ta.conf, GetUserClaims(ta.conf, admin))
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, token)
	ta.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newAuthRequest(http.MethodDelete, "/v1/users?id="+admin.ID, token)
	ta.app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
