package usecase_test

import (
	"testing"

	"campaign-platform/domain"
	"campaign-platform/modules/dashboard/usecase"

	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		role    domain.Role
		want    domain.DashboardKind
		wantErr bool
	}{
		{role: domain.RoleSuperAdmin, want: domain.DashboardSuperAdmin},
		{role: domain.RoleBrandAdmin, want: domain.DashboardBrand},
		{role: domain.RoleCreatorAdmin, want: domain.DashboardCreator},
		{role: "", wantErr: true},
		{role: "moderator", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got, err := usecase.Route(tt.role)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnknownRole)
				require.Empty(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
