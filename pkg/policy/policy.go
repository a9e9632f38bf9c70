package policy

import "github.com/limphasa/schemectl/pkg/scheme"

// View identifies a protected screen of the client
type View string

const (
	ViewDashboard           View = "dashboard"
	ViewBlockChairDashboard View = "blockchair-dashboard"
	ViewTreasurerDashboard  View = "treasurer-dashboard"
	ViewFarmers             View = "farmers"
	ViewAttendance          View = "attendance"
	ViewPayments            View = "payments"
	ViewDiscipline          View = "discipline"
)

// visibility is the fixed role -> view table. It is the only place view
// access is declared; nothing else in the client hard-codes a role name.
var visibility = map[scheme.Role][]View{
	scheme.RoleAdmin:      {ViewDashboard, ViewFarmers, ViewAttendance, ViewPayments, ViewDiscipline},
	scheme.RolePresident:  {ViewDashboard, ViewFarmers, ViewAttendance, ViewPayments, ViewDiscipline},
	scheme.RoleSecretary:  {ViewDashboard, ViewFarmers, ViewAttendance, ViewDiscipline},
	scheme.RoleTreasurer:  {ViewTreasurerDashboard, ViewPayments, ViewDiscipline},
	scheme.RoleBlockChair: {ViewBlockChairDashboard, ViewAttendance, ViewDiscipline},
	scheme.RoleFarmer:     {},
}

// VisibleViews returns the views the role may open, in a stable order.
// Unrecognized roles get nothing, same as farmer.
func VisibleViews(role scheme.Role) []View {
	views, ok := visibility[role]
	if !ok {
		return nil
	}
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// CanView reports whether the role may open the view
func CanView(role scheme.Role, view View) bool {
	for _, v := range visibility[role] {
		if v == view {
			return true
		}
	}
	return false
}

// DefaultView returns the landing view after login for the role, or ""
// for roles with no protected views.
func DefaultView(role scheme.Role) View {
	switch role {
	case scheme.RoleBlockChair:
		return ViewBlockChairDashboard
	case scheme.RoleTreasurer:
		return ViewTreasurerDashboard
	case scheme.RoleAdmin, scheme.RolePresident, scheme.RoleSecretary:
		return ViewDashboard
	}
	return ""
}

// Scope restricts list queries to a block and section. The zero Scope
// means unscoped.
type Scope struct {
	Block   int64
	Section int64
}

// IsZero reports whether the scope imposes no restriction
func (s Scope) IsZero() bool {
	return s.Block == 0 && s.Section == 0
}

// QueryScope returns the query restriction for the user: block chairs are
// pinned to their own block and section, everyone else is unscoped. A nil
// user is unscoped; an unauthenticated request never reaches the server
// anyway.
func QueryScope(u *scheme.User) Scope {
	if u == nil || u.Role != scheme.RoleBlockChair {
		return Scope{}
	}
	return Scope{Block: u.Block, Section: u.Section}
}
