package access

import "strings"

// Role is the closed set of account roles. Unknown values parse to an
// invalid Role that fails every check.
type Role string

const (
	RoleMasterAdmin    Role = "master_admin"
	RoleSectorAdmin    Role = "sector_admin"
	RoleSectorOperator Role = "sector_operator"
	RoleEmployee       Role = "employee"
)

var allRoles = []Role{RoleMasterAdmin, RoleSectorAdmin, RoleSectorOperator, RoleEmployee}

func (r Role) Valid() bool {
	for _, candidate := range allRoles {
		if r == candidate {
			return true
		}
	}
	return false
}

func ParseRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Sector is the organizational unit a sector-scoped account belongs to.
// Empty means unassigned.
type Sector string

const (
	SectorNone      Sector = ""
	SectorRH        Sector = "rh"
	SectorTributos  Sector = "tributos"
	SectorLicitacao Sector = "licitacao"
	SectorObras     Sector = "obras"
)

var allSectors = []Sector{SectorRH, SectorTributos, SectorLicitacao, SectorObras}

func (s Sector) Valid() bool {
	for _, candidate := range allSectors {
		if s == candidate {
			return true
		}
	}
	return false
}

func ParseSector(raw string) Sector {
	return Sector(strings.ToLower(strings.TrimSpace(raw)))
}

func AllSectors() []Sector {
	out := make([]Sector, len(allSectors))
	copy(out, allSectors)
	return out
}
