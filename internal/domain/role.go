package domain

// Role is the enumerated privilege level of an account.
type Role string

const (
	RoleBasic      Role = "basic"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Capability names one protected action. Route guards check capabilities, not
// role names, so the role list lives in exactly one table.
type Capability string

const (
	CapCaseManage     Capability = "cases:manage"
	CapAssetManage    Capability = "assets:manage"
	CapArticleManage  Capability = "articles:manage"
	CapAnnounceManage Capability = "announcements:manage"
	CapDocumentManage Capability = "documents:manage"
	CapAccountManage  Capability = "accounts:manage"
	CapTrashManage    Capability = "trash:manage"
	CapSessionRevoke  Capability = "sessions:revoke"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleBasic: {},
	RoleTechnician: {
		CapCaseManage:  true,
		CapAssetManage: true,
	},
	RoleAdmin: {
		CapCaseManage:     true,
		CapAssetManage:    true,
		CapArticleManage:  true,
		CapAnnounceManage: true,
		CapDocumentManage: true,
		CapAccountManage:  true,
		CapTrashManage:    true,
		CapSessionRevoke:  true,
	},
}

// Can reports whether the role may perform the capability. Superadmin is
// allowed everything without an entry in the table.
func (r Role) Can(c Capability) bool {
	if r == RoleSuperAdmin {
		return true
	}
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[c]
}

func (r Role) Valid() bool {
	switch r {
	case RoleBasic, RoleTechnician, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}
