package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"yamdb/database"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	superuserEmail    string
	superuserUsername string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create an admin account that can log in with the code handshake",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := connect()
		if err != nil {
			return err
		}
		defer database.Close(db)

		user, err := createSuperuser(cmd.Context(), db, superuserUsername, superuserEmail)
		if err != nil {
			return err
		}

		color.Green("✓ Superuser created successfully!")
		fmt.Printf("Username: %s\n", *user.Username)
		fmt.Printf("Email: %s\n", user.Email)
		fmt.Println("Request a confirmation code at POST /api/v1/auth/code to log in.")
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "email address (required)")
	createSuperuserCmd.Flags().StringVar(&superuserUsername, "username", "", "login handle (required)")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("username")
}

// createSuperuser stores an active staff superuser with the admin role.
func createSuperuser(ctx context.Context, db *gorm.DB, username, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email %q", email)
	}
	if !dto.ValidUsername(username) {
		return nil, fmt.Errorf("invalid username %q", username)
	}

	user := &models.User{
		Username:    &username,
		Email:       email,
		Role:        models.RoleAdmin,
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := repository.NewUserRepository(db).Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("a user with this username or email already exists")
		}
		return nil, fmt.Errorf("create superuser: %w", err)
	}
	return user, nil
}
