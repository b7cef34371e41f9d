// Package main provides staff management utilities for Shayari Hub.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"shayarihub/internal/authz"
	"shayarihub/internal/bootstrap"
	"shayarihub/internal/config"
	"shayarihub/internal/repository"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipOptional: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer rt.Close(ctx)

	users := repository.NewUserRepository(rt.DB)

	switch os.Args[1] {
	case "set-role":
		if len(os.Args) < 4 {
			fmt.Println("Usage: go run ./cmd/admin set-role <username> <user|admin|super_admin>")
			os.Exit(1)
		}
		if err := setRole(ctx, users, os.Args[2], os.Args[3]); err != nil {
			log.Fatal(err)
		}

	case "list-staff":
		if err := listStaff(ctx, users); err != nil {
			log.Fatal(err)
		}

	case "bootstrap":
		if err := bootstrap.EnsureSuperAdmin(ctx, cfg, users); err != nil {
			log.Fatal(err)
		}
		fmt.Println("✅ Super admin ensured")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin set-role <username> <role>   - Change a user's role")
	fmt.Println("  go run ./cmd/admin list-staff                   - List admins and super admins")
	fmt.Println("  go run ./cmd/admin bootstrap                    - Ensure SUPER_ADMIN_USERNAME exists")
}

func setRole(ctx context.Context, users repository.UserRepository, username, roleName string) error {
	role, ok := authz.ParseRole(roleName)
	if !ok {
		return fmt.Errorf("invalid role %q", roleName)
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user %s not found", username)
	}
	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Username, user.ID, role)
		return nil
	}

	if err := users.SetRole(ctx, user.ID, role); err != nil {
		return fmt.Errorf("failed to change role: %w", err)
	}
	fmt.Printf("✅ %s (ID: %d) is now %s (was %s)\n", user.Username, user.ID, role, user.Role)
	return nil
}

func listStaff(ctx context.Context, users repository.UserRepository) error {
	staff, err := users.ListStaff(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch staff: %w", err)
	}
	if len(staff) == 0 {
		fmt.Println("No staff accounts found")
		return nil
	}

	fmt.Println("\n📋 Current Staff:")
	fmt.Println("─────────────────────────────────────")
	for _, u := range staff {
		status := "active"
		if !u.IsActive {
			status = "banned"
		}
		fmt.Printf("ID: %d | %-11s | Username: %s | Email: %s | %s\n", u.ID, u.Role, u.Username, u.Email, status)
	}
	fmt.Println("─────────────────────────────────────")
	return nil
}
