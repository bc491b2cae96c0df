package access

import "testing"

func menuHas(entries []ModuleDescriptor, key Module) bool {
	for _, entry := range entries {
		if entry.Key == key {
			return true
		}
	}
	return false
}

func TestComposeForObrasAdmin(t *testing.T) {
	user := &User{ID: "u1", Role: RoleSectorAdmin, Sector: SectorObras}

	if CanAccessModule(user, ModuleLicitacao) {
		t.Fatal("obras admin must not access licitacao")
	}
	if !CanAccessModule(user, ModuleObras) {
		t.Fatal("obras admin must access obras")
	}

	menu := Compose(user)
	if !menuHas(menu, ModuleObras) {
		t.Fatal("menu must include obras")
	}
	for _, excluded := range []Module{ModuleTributos, ModuleLicitacao, ModuleConfiguracoes} {
		if menuHas(menu, excluded) {
			t.Fatalf("menu must exclude %q", excluded)
		}
	}
}

func TestComposePreservesManifestOrder(t *testing.T) {
	user := &User{ID: "u2", Role: RoleMasterAdmin}
	menu := Compose(user)
	full := Manifest()
	if len(menu) != len(full) {
		t.Fatalf("master_admin menu has %d entries, want %d", len(menu), len(full))
	}
	for i := range full {
		if menu[i].Key != full[i].Key {
			t.Fatalf("entry %d is %q, want %q", i, menu[i].Key, full[i].Key)
		}
	}
}

func TestComposeForEmployee(t *testing.T) {
	menu := Compose(&User{ID: "u3", Role: RoleEmployee, Sector: SectorNone})
	if len(menu) != 1 || menu[0].Key != ModuleRH {
		t.Fatalf("employee menu should be exactly the rh entry, got %v", menu)
	}
}

func TestComposeNilUserIsEmpty(t *testing.T) {
	if menu := Compose(nil); len(menu) != 0 {
		t.Fatalf("nil user composed %d entries", len(menu))
	}
}

// Every visible entry must also pass the route-level check so no user
// can be shown a menu item the guard would then deny.
func TestMenuNeverShowsDeniedModules(t *testing.T) {
	sectors := append(AllSectors(), SectorNone)
	for _, role := range AllRoles() {
		for _, sector := range sectors {
			user := &User{ID: "u4", Role: role, Sector: sector}
			for _, entry := range Compose(user) {
				if !CanAccessModule(user, entry.Key) {
					t.Fatalf("role %s sector %s sees %q but route denies it", role, sector, entry.Key)
				}
			}
		}
	}
}

func TestManifestSectorsAreKnown(t *testing.T) {
	for _, entry := range Manifest() {
		if entry.RequiredSector != SectorNone && !entry.RequiredSector.Valid() {
			t.Fatalf("entry %q has unknown sector %q", entry.Key, entry.RequiredSector)
		}
		if len(entry.AllowedRoles) == 0 {
			t.Fatalf("entry %q has no allowed roles", entry.Key)
		}
	}
}
