package usecase

import "campaign-platform/domain"

var dashboards = map[domain.Role]domain.DashboardKind{
	domain.RoleSuperAdmin:   domain.DashboardSuperAdmin,
	domain.RoleBrandAdmin:   domain.DashboardBrand,
	domain.RoleCreatorAdmin: domain.DashboardCreator,
}

// Route picks the dashboard for role. A role outside the known set is an
// error, never a fallback view.
func Route(role domain.Role) (domain.DashboardKind, error) {
	kind, ok := dashboards[role]
	if !ok {
		return "", domain.ErrUnknownRole.WithDetail("role", string(role))
	}
	return kind, nil
}
