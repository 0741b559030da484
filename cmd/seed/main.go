package main

import (
	"context"
	"log"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"slack-service/internal/config"
	"slack-service/internal/database"
	"slack-service/internal/models"
	"slack-service/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewPostgresConnection(cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	slog.Info("Database connection established")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	workspaceRepo := repository.NewWorkspaceRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Seed initial users
	slog.Info("Creating initial users...")

	adminPassword, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	adminUser := &models.User{
		Username: "admin",
		Email:    "admin@slack.local",
		Password: string(adminPassword),
	}
	if err := userRepo.Create(ctx, adminUser); err != nil {
		slog.Warn("Admin user might already exist", "error", err)
		existing, lookupErr := userRepo.FindByEmail(ctx, adminUser.Email)
		if lookupErr != nil {
			log.Fatal("Failed to resolve admin user:", lookupErr)
		}
		adminUser = existing
	} else {
		slog.Info("Created admin user", "id", adminUser.ID)
	}

	testUsers := []struct {
		username string
		email    string
	}{
		{"alice", "alice@slack.local"},
		{"bob", "bob@slack.local"},
	}

	users := make([]*models.User, 0, len(testUsers))
	for _, tu := range testUsers {
		password, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
		user := &models.User{
			Username: tu.username,
			Email:    tu.email,
			Password: string(password),
		}
		if err := userRepo.Create(ctx, user); err != nil {
			slog.Warn("User might already exist", "email", tu.email, "error", err)
			existing, lookupErr := userRepo.FindByEmail(ctx, tu.email)
			if lookupErr != nil {
				log.Fatal("Failed to resolve user:", lookupErr)
			}
			user = existing
		} else {
			slog.Info("Created user", "id", user.ID, "username", user.Username)
		}
		users = append(users, user)
	}

	// Seed a demo workspace with the admin as its first member
	slog.Info("Creating demo workspace...")

	workspace := &models.Workspace{
		Name:     "Demo Workspace",
		UserID:   adminUser.ID,
		JoinCode: "demo01",
	}
	adminMember := &models.Member{UserID: adminUser.ID, Role: models.MemberRoleAdmin}
	general := &models.Channel{Name: "general"}

	if err := workspaceRepo.Create(ctx, workspace, adminMember, general); err != nil {
		slog.Warn("Demo workspace might already exist", "error", err)
		slog.Info("Database seeding finished")
		return
	}
	slog.Info("Created workspace", "id", workspace.ID, "joinCode", workspace.JoinCode)

	// Join the test users as plain members
	for _, user := range users {
		member := &models.Member{
			WorkspaceID: workspace.ID,
			UserID:      user.ID,
			Role:        models.MemberRoleMember,
		}
		if err := memberRepo.Create(ctx, member); err != nil {
			slog.Warn("Membership might already exist", "userId", user.ID, "error", err)
		}
	}

	// A first message so the general channel is not empty
	welcome := &models.Message{
		Body:        "Welcome to the demo workspace!",
		MemberID:    adminMember.ID,
		WorkspaceID: workspace.ID,
		ChannelID:   &general.ID,
	}
	if err := messageRepo.Create(ctx, welcome); err != nil {
		slog.Warn("Failed to create welcome message", "error", err)
	}

	slog.Info("Database seeding completed successfully!")
}
