package access

// Module is a named functional area gating both a route subtree and a
// menu entry.
type Module string

const (
	ModuleRH            Module = "rh"
	ModuleTributos      Module = "tributos"
	ModuleLicitacao     Module = "licitacao"
	ModuleObras         Module = "obras"
	ModuleRelatorios    Module = "relatorios"
	ModuleConfiguracoes Module = "configuracoes"
)

// User is the immutable per-request snapshot the resolver reads. It is
// populated from token claims and never mutated here.
type User struct {
	ID     string
	Role   Role
	Sector Sector
}

// moduleSectors maps each sector-scoped module to the sector whose
// admins and operators may use it. Modules absent from this table are
// reachable only through the master_admin bypass.
var moduleSectors = map[Module]Sector{
	ModuleRH:        SectorRH,
	ModuleTributos:  SectorTributos,
	ModuleLicitacao: SectorLicitacao,
	ModuleObras:     SectorObras,
}

// CanAccessModule is the authoritative access check enforced by the
// route guard. Evaluation order matters: nil user denies, master_admin
// bypasses everything, the employee role is hard-narrowed to the HR
// module, and everyone else is matched against the sector table.
// Unknown modules and unknown roles deny.
func CanAccessModule(user *User, module Module) bool {
	if user == nil {
		return false
	}
	if user.Role == RoleMasterAdmin {
		return true
	}
	if user.Role == RoleEmployee {
		return module == ModuleRH
	}
	if user.Role != RoleSectorAdmin && user.Role != RoleSectorOperator {
		return false
	}
	required, ok := moduleSectors[module]
	if !ok {
		return false
	}
	return user.Sector == required
}

// RequiredSector reports the sector that gates a module, if any.
func RequiredSector(module Module) (Sector, bool) {
	sector, ok := moduleSectors[module]
	return sector, ok
}
