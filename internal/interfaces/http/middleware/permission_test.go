package middleware

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
)

func TestRequirePermission(t *testing.T) {
	f := newJWTFixture(t, RequirePermission(identity.PermissionOrdersManage))

	tests := []struct {
		name    string
		subject *auth.TokenSubject
		status  int
		code    string
	}{
		{"anonymous", nil, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"missing permission", &auth.TokenSubject{UserID: uuid.New(), Username: "u1",
			Permissions: []string{identity.PermissionCatalogWrite}}, http.StatusForbidden, dto.ErrCodeForbidden},
		{"granted", &auth.TokenSubject{UserID: uuid.New(), Username: "u2",
			Permissions: []string{identity.PermissionOrdersManage}}, http.StatusOK, ""},
		{"wildcard", &auth.TokenSubject{UserID: uuid.New(), Username: "u3",
			Permissions: []string{identity.PermissionAll}}, http.StatusOK, ""},
		{"staff", &auth.TokenSubject{UserID: uuid.New(), Username: "u4", IsStaff: true}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := ""
			if tt.subject != nil {
				header = BearerPrefix + issueTokens(t, f.svc, *tt.subject).AccessToken
			}
			w := f.get(header)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, errorCode(t, w))
			}
		})
	}
}

func TestRequireAnyAndAllPermissions(t *testing.T) {
	subject := auth.TokenSubject{
		UserID:      uuid.New(),
		Username:    "clerk",
		Permissions: []string{identity.PermissionReportsRead},
	}

	anyF := newJWTFixture(t, RequireAnyPermission(identity.PermissionAdminAccess, identity.PermissionReportsRead))
	assert.Equal(t, http.StatusOK, anyF.get(BearerPrefix+issueTokens(t, anyF.svc, subject).AccessToken).Code)

	allF := newJWTFixture(t, RequireAllPermissions(identity.PermissionAdminAccess, identity.PermissionReportsRead))
	assert.Equal(t, http.StatusForbidden, allF.get(BearerPrefix+issueTokens(t, allF.svc, subject).AccessToken).Code)
}

func TestRequireStaff(t *testing.T) {
	f := newJWTFixture(t, RequireStaff())

	regular := issueTokens(t, f.svc, auth.TokenSubject{UserID: uuid.New(), Username: "r",
		Permissions: []string{identity.PermissionAll}})
	assert.Equal(t, http.StatusForbidden, f.get(BearerPrefix+regular.AccessToken).Code)

	staff := issueTokens(t, f.svc, auth.TokenSubject{UserID: uuid.New(), Username: "s", IsStaff: true})
	assert.Equal(t, http.StatusOK, f.get(BearerPrefix+staff.AccessToken).Code)
}
