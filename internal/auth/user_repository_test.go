package auth

import (
	"context"
	"errors"
	"testing"
)

func TestUserRepository_CreateAndGetByID(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "worker@example.com", "password123", RoleWarehouseWorker)

	if user.ID == "" {
		t.Fatal("Create() should generate an ID")
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Email != "worker@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "worker@example.com")
	}
	if got.Role != RoleWarehouseWorker {
		t.Errorf("Role = %q, want %q", got.Role, RoleWarehouseWorker)
	}
	if got.PasswordHash == "" {
		t.Error("PasswordHash should be populated")
	}
	if got.RefreshTokenHash != "" {
		t.Error("new user should have no refresh token hash")
	}
	if !got.HasPermission(PermStockCreate) {
		t.Error("warehouse worker should carry stock.create")
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "admin@example.com", "password123", RoleAdmin)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %q, want %q", got.ID, user.ID)
	}
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	createTestUser(t, repo, "taken@example.com", "password123", RoleViewer)

	hash, _ := testHasher().Hash("password456")
	dup := &User{
		Email:        "taken@example.com",
		Name:         "Second",
		PasswordHash: hash,
		Role:         RoleViewer,
	}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrEmailExists) {
		t.Errorf("error = %v, want ErrEmailExists", err)
	}
}

func TestUserRepository_SetRefreshTokenHash(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "worker@example.com", "password123", RoleWarehouseWorker)

	if err := repo.SetRefreshTokenHash(ctx, user.ID, "$argon2id$fake-hash"); err != nil {
		t.Fatalf("SetRefreshTokenHash() error = %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.RefreshTokenHash != "$argon2id$fake-hash" {
		t.Errorf("RefreshTokenHash = %q, want stored hash", got.RefreshTokenHash)
	}

	// Clearing with empty string nulls the column
	if err := repo.SetRefreshTokenHash(ctx, user.ID, ""); err != nil {
		t.Fatalf("SetRefreshTokenHash(clear) error = %v", err)
	}

	got, err = repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.RefreshTokenHash != "" {
		t.Errorf("RefreshTokenHash = %q, want empty after clear", got.RefreshTokenHash)
	}
}

func TestUserRepository_SetRefreshTokenHash_UnknownUser(t *testing.T) {
	repo := NewUserRepository(testDB(t))

	err := repo.SetRefreshTokenHash(context.Background(), "usr-missing1", "hash")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "viewer@example.com", "password123", RoleViewer)

	user.Name = "Promoted Viewer"
	user.Role = RoleWarehouseWorker
	user.Permissions = DefaultPermissions(RoleWarehouseWorker)
	if err := repo.Update(ctx, user); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Promoted Viewer" {
		t.Errorf("Name = %q, want %q", got.Name, "Promoted Viewer")
	}
	if got.Role != RoleWarehouseWorker {
		t.Errorf("Role = %q, want %q", got.Role, RoleWarehouseWorker)
	}
	if !got.HasPermission(PermStockUpdate) {
		t.Error("updated permissions should persist")
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	user := createTestUser(t, repo, "gone@example.com", "password123", RoleViewer)

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := repo.GetByID(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound after delete", err)
	}

	if err := repo.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_ListAndCount(t *testing.T) {
	repo := NewUserRepository(testDB(t))
	ctx := context.Background()

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0 on empty table", count)
	}

	users, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 0 {
		t.Errorf("List() returned %d users, want 0", len(users))
	}

	createTestUser(t, repo, "one@example.com", "password123", RoleAdmin)
	createTestUser(t, repo, "two@example.com", "password123", RoleViewer)

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Count() = %d, want 2", count)
	}

	users, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("List() returned %d users, want 2", len(users))
	}
}
