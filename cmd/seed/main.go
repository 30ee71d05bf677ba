// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/auth"
	"storekeeper/internal/infrastructure/storage/postgres"
	"storekeeper/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedRoles(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed roles", "error", err)
	}

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedRoles(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	roles := []struct {
		code        string
		name        string
		description string
	}{
		{auth.RoleAdmin, "Administrator", "Full access including user management"},
		{auth.RoleStorekeeper, "Storekeeper", "Receives and issues stock, manages catalogs"},
		{auth.RoleViewer, "Viewer", "Read-only access to stock and reports"},
	}

	for _, r := range roles {
		now := time.Now()
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO roles (id, code, name, description, is_system, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, $5, $5)
			ON CONFLICT (code) DO NOTHING
		`, id.New(), r.code, r.name, r.description, now)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", r.code, err)
		}
	}

	log.Info("system roles seeded")
	return nil
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@storekeeper.local"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	// Check if admin already exists
	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND deleted_at IS NULL`,
		adminEmail,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existingID)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, first_name, last_name,
			is_active, is_admin, created_at, updated_at, version
		)
		VALUES ($1, $2, $3, 'System', 'Admin', true, true, $4, $4, 1)
	`, userID, adminEmail, string(passwordHash), now)
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE code = $2
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, auth.RoleAdmin)
	if err != nil {
		log.Warnw("failed to assign admin role", "error", err)
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", userID)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo data...")

	// 1. Categories
	categories := []struct {
		name        string
		description string
	}{
		{"Computing", "Laptops, desktops and peripherals"},
		{"Furniture", "Desks, chairs and cabinets"},
		{"Consumables", "Paper, toner and cleaning supplies"},
		{"Medical", "Clinic supplies with expiry dates"},
	}

	categoryIDs := make(map[string]id.ID)
	for i, c := range categories {
		cid := id.New()
		code := fmt.Sprintf("CAT-%03d", i+1)
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_categories (id, code, name, description, version, deletion_mark, attributes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 1, false, '{}', now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, cid, code, c.name, c.description)
		if err != nil {
			log.Warnw("failed to seed category", "name", c.name, "error", err)
			continue
		}
		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_categories WHERE code = $1 AND deletion_mark = FALSE`,
				code,
			).Scan(&cid); err != nil {
				log.Warnw("failed to fetch existing category", "code", code, "error", err)
				continue
			}
		}
		categoryIDs[c.name] = cid
	}

	// 2. Departments
	departments := []struct {
		name        string
		description string
	}{
		{"Administration", "Front office and management"},
		{"ICT", "Information and communication technology"},
		{"Stores", "Central store"},
		{"Clinic", "Staff clinic"},
	}

	departmentIDs := make(map[string]id.ID)
	for i, d := range departments {
		did := id.New()
		code := fmt.Sprintf("DEP-%03d", i+1)
		tag, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_departments (id, code, name, description, version, deletion_mark, attributes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 1, false, '{}', now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, did, code, d.name, d.description)
		if err != nil {
			log.Warnw("failed to seed department", "name", d.name, "error", err)
			continue
		}
		if tag.RowsAffected() == 0 {
			if err := pool.Pool.QueryRow(ctx,
				`SELECT id FROM cat_departments WHERE code = $1 AND deletion_mark = FALSE`,
				code,
			).Scan(&did); err != nil {
				log.Warnw("failed to fetch existing department", "code", code, "error", err)
				continue
			}
		}
		departmentIDs[d.name] = did
	}

	// 3. Suppliers
	suppliers := []struct {
		name    string
		contact string
		phone   string
		email   string
	}{
		{"Techtronics Ltd", "James Mwangi", "+254-700-111222", "sales@techtronics.example"},
		{"Office Essentials Co", "Grace Adhiambo", "+254-700-333444", "orders@officeessentials.example"},
		{"MediSupply East Africa", "Peter Otieno", "+254-700-555666", "info@medisupply.example"},
	}

	for i, s := range suppliers {
		code := fmt.Sprintf("SUP-%03d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_suppliers (id, code, name, contact_person, phone, email, version, deletion_mark, attributes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, false, '{}', now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), code, s.name, s.contact, s.phone, s.email)
		if err != nil {
			log.Warnw("failed to seed supplier", "name", s.name, "error", err)
		}
	}

	// 4. Items
	items := []struct {
		name        string
		category    string
		expires     bool
		depreciates bool
		engraved    bool
	}{
		{"Laptop 14\"", "Computing", false, true, true},
		{"Desktop workstation", "Computing", false, true, true},
		{"Office chair", "Furniture", false, true, false},
		{"Printer paper A4", "Consumables", false, false, false},
		{"Toner cartridge", "Consumables", true, false, false},
		{"Surgical gloves", "Medical", true, false, false},
	}

	for i, it := range items {
		code := fmt.Sprintf("ITM-%03d", i+1)
		var categoryID any
		if cid, ok := categoryIDs[it.category]; ok {
			categoryID = cid
		}
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_items (id, code, name, category_id, expires, depreciates, engraved, version, deletion_mark, attributes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, 1, false, '{}', now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), code, it.name, categoryID, it.expires, it.depreciates, it.engraved)
		if err != nil {
			log.Warnw("failed to seed item", "name", it.name, "error", err)
		}
	}

	// 5. Employees
	employees := []struct {
		name       string
		department string
		position   string
		office     string
	}{
		{"Alice Wanjiru", "Administration", "Office Manager", "Block A"},
		{"Brian Kiptoo", "ICT", "Systems Administrator", "Server Room"},
		{"Catherine Njeri", "Stores", "Store Clerk", "Main Store"},
		{"David Omondi", "Clinic", "Nurse", "Clinic Wing"},
	}

	for i, e := range employees {
		did, ok := departmentIDs[e.department]
		if !ok {
			continue
		}
		code := fmt.Sprintf("EMP-%03d", i+1)
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO cat_employees (id, code, name, department_id, position, office, version, deletion_mark, attributes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, false, '{}', now(), now())
			ON CONFLICT (code) WHERE deletion_mark = FALSE DO NOTHING
		`, id.New(), code, e.name, did, e.position, e.office)
		if err != nil {
			log.Warnw("failed to seed employee", "name", e.name, "error", err)
		}
	}

	log.Info("demo data seeded")
	return nil
}
