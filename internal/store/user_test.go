package store

import (
	"testing"

	"bankcat/internal/models"
)

func TestUserStoreCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	email := "user-store-test@bankcat.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := users.Create(email, "hunter2password", "Store Test", models.RoleStaff, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.PasswordHash == "hunter2password" {
		t.Fatal("password stored in plaintext")
	}
	if u.Role != models.RoleStaff {
		t.Errorf("role = %q, want staff", u.Role)
	}

	found, err := users.FindByEmail(email)
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatalf("find by email = %v, want created user", found)
	}

	if !users.CheckPassword(found, "hunter2password") {
		t.Error("correct password rejected")
	}
	if users.CheckPassword(found, "wrong-password") {
		t.Error("wrong password accepted")
	}

	missing, err := users.FindByEmail("nobody@bankcat.local")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Error("missing email returned a user")
	}
}

func TestUserStoreUpdatePassword(t *testing.T) {
	db := testDB(t)
	users := NewUserStore(db)

	email := "user-pw-test@bankcat.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := users.Create(email, "original-pass", "PW Test", models.RoleMember, nil)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := users.UpdatePassword(u.ID, "rotated-pass"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	reloaded, err := users.FindByID(u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if users.CheckPassword(reloaded, "original-pass") {
		t.Error("old password still accepted")
	}
	if !users.CheckPassword(reloaded, "rotated-pass") {
		t.Error("new password rejected")
	}
}
