package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/cidade-conectada/reports-api/internal/domain/auth"
	"github.com/cidade-conectada/reports-api/internal/domain/model"
	apperrors "github.com/cidade-conectada/reports-api/internal/errors"
	coremocks "github.com/cidade-conectada/reports-api/internal/mocks"
)

func gateWithRole(t *testing.T, ctrl *gomock.Controller, stored domainauth.Role) *AccessGate {
	t.Helper()
	profiles := coremocks.NewMockProfileRepository(ctrl)
	profiles.EXPECT().GetByUserID(gomock.Any(), gomock.Any()).Return(&model.Profile{
		UserID: "user-1",
		Role:   stored,
	}, nil).AnyTimes()

	resolver := NewRoleResolver(RoleResolverOptions{
		Sessions: validatorReturning(liveSession("user-1")),
		Profiles: profiles,
	})
	return NewAccessGate(AccessGateOptions{Roles: resolver})
}

func TestAccessGate_Authorize_AdminAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := gateWithRole(t, ctrl, domainauth.RoleAdmin)
	caller, err := gate.Authorize(context.Background(), "sess", domainauth.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, caller.Role)
}

func TestAccessGate_Authorize_UserDeniedAdminOperation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := gateWithRole(t, ctrl, domainauth.RoleUser)
	_, err := gate.Authorize(context.Background(), "sess", domainauth.RoleAdmin)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestAccessGate_Authorize_RoleVariantsNeverSatisfyAdmin(t *testing.T) {
	// look-alike roles must fail the strict equality check, not sneak past it
	for _, stored := range []domainauth.Role{"administrator", "ADMIN2", "admin-x", ""} {
		t.Run(string(stored), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			gate := gateWithRole(t, ctrl, stored)
			_, err := gate.Authorize(context.Background(), "sess", domainauth.RoleAdmin)
			assert.True(t, apperrors.IsForbidden(err))
		})
	}
}

func TestAccessGate_Authorize_CaseAndWhitespaceInsensitive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := gateWithRole(t, ctrl, domainauth.Role(" ADMIN "))
	_, err := gate.Authorize(context.Background(), "sess", domainauth.RoleAdmin)
	assert.NoError(t, err)
}

func TestAccessGate_Authorize_AdminSatisfiesUserRequirement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	gate := gateWithRole(t, ctrl, domainauth.RoleAdmin)
	_, err := gate.Authorize(context.Background(), "sess", domainauth.RoleUser)
	assert.NoError(t, err)
}

func TestAccessGate_Authorize_DeadSessionIsUnauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	profiles := coremocks.NewMockProfileRepository(ctrl)
	validator := &stubSessionValidator{
		ValidateFunc: func(_ context.Context, _ string) (domainauth.Session, error) {
			return domainauth.Session{}, apperrors.Unauthenticated("authentication required")
		},
	}
	gate := NewAccessGate(AccessGateOptions{
		Roles: NewRoleResolver(RoleResolverOptions{Sessions: validator, Profiles: profiles}),
	})

	_, err := gate.Authorize(context.Background(), "", domainauth.RoleUser)
	assert.True(t, apperrors.IsUnauthenticated(err))
}
