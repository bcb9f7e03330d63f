package auth

import "testing"

func TestDefaultPermissions(t *testing.T) {
	tests := []struct {
		role Role
		want []string
	}{
		{RoleAdmin, AllPermissions},
		{RoleWarehouseWorker, []string{PermStockCreate, PermStockUpdate}},
		{RoleViewer, []string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			got := DefaultPermissions(tt.role)
			if len(got) != len(tt.want) {
				t.Fatalf("DefaultPermissions(%s) = %v, want %v", tt.role, got, tt.want)
			}
			for i, p := range tt.want {
				if got[i] != p {
					t.Errorf("DefaultPermissions(%s)[%d] = %q, want %q", tt.role, i, got[i], p)
				}
			}
		})
	}
}

func TestDefaultPermissions_AdminCopyIsIndependent(t *testing.T) {
	perms := DefaultPermissions(RoleAdmin)
	perms[0] = "tampered"

	if AllPermissions[0] != PermMaterialCreate {
		t.Error("mutating a returned permission set must not affect AllPermissions")
	}
}

func TestIsKnownPermission(t *testing.T) {
	for _, p := range AllPermissions {
		if !IsKnownPermission(p) {
			t.Errorf("IsKnownPermission(%q) = false, want true", p)
		}
	}
	if IsKnownPermission("material.explode") {
		t.Error("IsKnownPermission should reject unknown strings")
	}
}

func TestUser_HasPermission(t *testing.T) {
	u := &User{Permissions: []string{PermStockCreate}}

	if !u.HasPermission(PermStockCreate) {
		t.Error("HasPermission should find a held permission")
	}
	if u.HasPermission(PermStockDelete) {
		t.Error("HasPermission should reject an unheld permission")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, r := range ValidRoles {
		if !IsValidRole(r) {
			t.Errorf("IsValidRole(%q) = false, want true", r)
		}
	}
	if IsValidRole("SUPERUSER") {
		t.Error("IsValidRole should reject unknown roles")
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "worker+tag@example.com", "x.y@sub.domain.org"}
	invalid := []string{"", "plain", "@example.com", "a@b", "a b@example.com"}

	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}
