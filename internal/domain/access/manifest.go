package access

// ModuleDescriptor is one entry of the static navigation manifest.
type ModuleDescriptor struct {
	Key             Module `json:"key"`
	Name            string `json:"name"`
	Route           string `json:"route"`
	AllowedRoles    []Role `json:"allowedRoles"`
	RequiredSector  Sector `json:"requiredSector,omitempty"`
	EmployeeVisible bool   `json:"employeeVisible"`
}

// manifest is ordered; Compose preserves this order in its output.
var manifest = []ModuleDescriptor{
	{
		Key:             ModuleRH,
		Name:            "Recursos Humanos",
		Route:           "/rh",
		AllowedRoles:    []Role{RoleMasterAdmin, RoleSectorAdmin, RoleSectorOperator, RoleEmployee},
		RequiredSector:  SectorRH,
		EmployeeVisible: true,
	},
	{
		Key:            ModuleTributos,
		Name:           "Tributos",
		Route:          "/tributos",
		AllowedRoles:   []Role{RoleMasterAdmin, RoleSectorAdmin, RoleSectorOperator},
		RequiredSector: SectorTributos,
	},
	{
		Key:            ModuleLicitacao,
		Name:           "Licitação",
		Route:          "/licitacao",
		AllowedRoles:   []Role{RoleMasterAdmin, RoleSectorAdmin, RoleSectorOperator},
		RequiredSector: SectorLicitacao,
	},
	{
		Key:            ModuleObras,
		Name:           "Obras",
		Route:          "/obras",
		AllowedRoles:   []Role{RoleMasterAdmin, RoleSectorAdmin, RoleSectorOperator},
		RequiredSector: SectorObras,
	},
	{
		Key:          ModuleRelatorios,
		Name:         "Relatórios",
		Route:        "/relatorios",
		AllowedRoles: []Role{RoleMasterAdmin},
	},
	{
		Key:          ModuleConfiguracoes,
		Name:         "Configurações",
		Route:        "/configuracoes",
		AllowedRoles: []Role{RoleMasterAdmin},
	},
}

func Manifest() []ModuleDescriptor {
	out := make([]ModuleDescriptor, len(manifest))
	copy(out, manifest)
	return out
}

// MenuVisible decides whether a manifest entry appears in a user's
// navigation. This is list filtering for the UI, not a security
// boundary: routes are enforced by CanAccessModule alone, and the two
// checks intentionally differ (this one matches on the entry's role
// list rather than the sector table).
func MenuVisible(user *User, item ModuleDescriptor) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleMasterAdmin {
		return true
	}
	if !roleAllowed(user.Role, item.AllowedRoles) {
		return false
	}
	if user.Role == RoleEmployee {
		return item.EmployeeVisible
	}
	if item.RequiredSector != SectorNone && item.RequiredSector != user.Sector {
		return false
	}
	return true
}

// Compose returns the menu entries visible to the user, in manifest
// order. Nil user composes an empty menu.
func Compose(user *User) []ModuleDescriptor {
	out := make([]ModuleDescriptor, 0, len(manifest))
	for _, item := range manifest {
		if MenuVisible(user, item) {
			out = append(out, item)
		}
	}
	return out
}

func roleAllowed(role Role, allowed []Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}
