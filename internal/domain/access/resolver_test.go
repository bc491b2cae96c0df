package access

import "testing"

var allModules = []Module{
	ModuleRH, ModuleTributos, ModuleLicitacao, ModuleObras,
	ModuleRelatorios, ModuleConfiguracoes,
}

func TestMasterAdminBypassesEverySector(t *testing.T) {
	for _, sector := range append(AllSectors(), SectorNone) {
		user := &User{ID: "u1", Role: RoleMasterAdmin, Sector: sector}
		for _, module := range allModules {
			if !CanAccessModule(user, module) {
				t.Fatalf("master_admin with sector %q denied module %q", sector, module)
			}
		}
	}
}

func TestEmployeeNarrowedToHR(t *testing.T) {
	for _, sector := range append(AllSectors(), SectorNone) {
		user := &User{ID: "u2", Role: RoleEmployee, Sector: sector}
		if !CanAccessModule(user, ModuleRH) {
			t.Fatalf("employee with sector %q denied rh", sector)
		}
		for _, module := range allModules {
			if module == ModuleRH {
				continue
			}
			if CanAccessModule(user, module) {
				t.Fatalf("employee with sector %q allowed module %q", sector, module)
			}
		}
	}
}

func TestSectorRolesMatchSectorTable(t *testing.T) {
	for _, role := range []Role{RoleSectorAdmin, RoleSectorOperator} {
		for _, sector := range AllSectors() {
			user := &User{ID: "u3", Role: role, Sector: sector}
			for _, module := range allModules {
				required, gated := RequiredSector(module)
				want := gated && required == sector
				if got := CanAccessModule(user, module); got != want {
					t.Fatalf("role %s sector %s module %s: got %v, want %v", role, sector, module, got, want)
				}
			}
		}
	}
}

func TestFailClosed(t *testing.T) {
	if CanAccessModule(nil, ModuleRH) {
		t.Fatal("nil user must be denied")
	}
	user := &User{ID: "u4", Role: RoleSectorAdmin, Sector: SectorRH}
	if CanAccessModule(user, Module("unknown_module")) {
		t.Fatal("unknown module must be denied")
	}
	if CanAccessModule(&User{ID: "u5", Role: Role("intern")}, ModuleRH) {
		t.Fatal("unknown role must be denied")
	}
	if CanAccessModule(&User{ID: "u6", Role: RoleSectorOperator, Sector: SectorNone}, ModuleRH) {
		t.Fatal("sector role without sector must be denied")
	}
}

func TestParseRoleAndSectorNormalize(t *testing.T) {
	if ParseRole("  Master_Admin ") != RoleMasterAdmin {
		t.Fatal("role parsing should trim and lowercase")
	}
	if ParseSector("OBRAS") != SectorObras {
		t.Fatal("sector parsing should lowercase")
	}
	if ParseRole("prefeito").Valid() {
		t.Fatal("unknown role must not validate")
	}
	if ParseSector("cultura").Valid() {
		t.Fatal("unknown sector must not validate")
	}
}
