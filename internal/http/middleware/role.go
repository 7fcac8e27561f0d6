package middleware

import "fmt"

// RoleKind enumerates who a user is. Authorization decisions switch
// exhaustively over this kind instead of probing loosely-typed claims.
type RoleKind int

const (
	RoleSuperAdmin RoleKind = iota
	RoleTenantAdmin
	RoleContentEditor
	RoleViewer
)

// Role is a tagged union: every kind except SuperAdmin is scoped to one
// masjid.
type Role struct {
	Kind     RoleKind
	MasjidID int
}

// Database role strings.
const (
	roleSuperAdmin    = "super_admin"
	roleTenantAdmin   = "tenant_admin"
	roleContentEditor = "content_editor"
	roleViewer        = "viewer"
)

// ParseRole converts the persisted role string into a typed Role. Tenant
// roles require a masjid id.
func ParseRole(name string, masjidID *int) (Role, error) {
	switch name {
	case roleSuperAdmin:
		return Role{Kind: RoleSuperAdmin}, nil
	case roleTenantAdmin, roleContentEditor, roleViewer:
		if masjidID == nil {
			return Role{}, fmt.Errorf("role %q requires a masjid id", name)
		}
		kind := RoleViewer
		switch name {
		case roleTenantAdmin:
			kind = RoleTenantAdmin
		case roleContentEditor:
			kind = RoleContentEditor
		}
		return Role{Kind: kind, MasjidID: *masjidID}, nil
	default:
		return Role{}, fmt.Errorf("unknown role %q", name)
	}
}

// CanManageContent reports whether the role may mutate announcements,
// media, and schedule entries of the given masjid.
func (r Role) CanManageContent(masjidID int) bool {
	switch r.Kind {
	case RoleSuperAdmin:
		return true
	case RoleTenantAdmin, RoleContentEditor:
		return r.MasjidID == masjidID
	case RoleViewer:
		return false
	}
	return false
}

// CanManageDevices reports whether the role may pair, reload, or retemplate
// devices of the given masjid.
func (r Role) CanManageDevices(masjidID int) bool {
	switch r.Kind {
	case RoleSuperAdmin:
		return true
	case RoleTenantAdmin:
		return r.MasjidID == masjidID
	case RoleContentEditor, RoleViewer:
		return false
	}
	return false
}

// CanView reports whether the role may read the given masjid's data.
func (r Role) CanView(masjidID int) bool {
	switch r.Kind {
	case RoleSuperAdmin:
		return true
	case RoleTenantAdmin, RoleContentEditor, RoleViewer:
		return r.MasjidID == masjidID
	}
	return false
}
