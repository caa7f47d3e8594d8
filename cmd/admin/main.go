// Command admin is the operator CLI: account management and the unarchive
// escape hatch, run directly against the database.
package main

import (
	"fmt"
	"log"
	"os"

	"pontotaxi/backend/internal/auth"
	"pontotaxi/backend/internal/config"
	"pontotaxi/backend/internal/messages"
	"pontotaxi/backend/internal/models"
	"pontotaxi/backend/internal/storage"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	var store storage.Storage = storage.NewService(db, nil, nil) // no redis needed for the CLI

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "create-admin":
		if len(os.Args) != 5 {
			fmt.Println("Usage: admin create-admin <name> <email> <password>")
			os.Exit(1)
		}
		if err := createAdmin(store, os.Args[2], os.Args[3], os.Args[4]); err != nil {
			log.Fatalf("Error creating admin: %v", err)
		}
		fmt.Printf("Admin %s created.\n", os.Args[3])
	case "set-role":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin set-role <email> <admin|dev|user>")
			os.Exit(1)
		}
		if err := setRole(store, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error setting role: %v", err)
		}
		fmt.Printf("Role of %s set to %s.\n", os.Args[2], os.Args[3])
	case "grant":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin grant <email> <permission>")
			os.Exit(1)
		}
		if err := grant(store, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error granting permission: %v", err)
		}
		fmt.Printf("Granted %s to %s.\n", os.Args[3], os.Args[2])
	case "revoke":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin revoke <email> <permission>")
			os.Exit(1)
		}
		if err := revoke(store, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Error revoking permission: %v", err)
		}
		fmt.Printf("Revoked %s from %s.\n", os.Args[3], os.Args[2])
	case "unarchive":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin unarchive <type> <protocol>")
			os.Exit(1)
		}
		svc := messages.NewService(store, nil, nil)
		msg, err := svc.Unarchive(os.Args[2], os.Args[3], "cli")
		if err != nil {
			log.Fatalf("Error unarchiving: %v", err)
		}
		fmt.Printf("Message %s restored with status %s.\n", msg.Protocol, msg.Status)
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <create-admin|set-role|grant|revoke|unarchive> [args]")
	os.Exit(1)
}

func createAdmin(s storage.Storage, name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.SaveUser(&models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
}

func setRole(s storage.Storage, email, role string) error {
	if role != models.RoleAdmin && role != models.RoleDev && role != models.RoleUser {
		return fmt.Errorf("unknown role %q", role)
	}
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	user.Role = role
	return s.SaveUser(user)
}

func grant(s storage.Storage, email, perm string) error {
	if !auth.KnownPermission(perm) {
		return fmt.Errorf("unknown permission %q", perm)
	}
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	for _, p := range user.Permissions {
		if p == perm {
			return nil // already granted
		}
	}
	user.Permissions = append(user.Permissions, perm)
	return s.SaveUser(user)
}

func revoke(s storage.Storage, email, perm string) error {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return err
	}
	kept := make(pq.StringArray, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		if p != perm {
			kept = append(kept, p)
		}
	}
	user.Permissions = kept
	return s.SaveUser(user)
}
