package main

import (
	"github.com/mrouhi13/laum/internal/repositories"
	"github.com/mrouhi13/laum/internal/services"
	"github.com/mrouhi13/laum/pkg/logger"
	"github.com/spf13/cobra"
)

var createStaffCmd = &cobra.Command{
	Use:   "create-staff",
	Short: "Create a staff account for the admin API and bot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		superuser, _ := cmd.Flags().GetBool("superuser")

		cfg, db, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		authService := services.NewAuthService(repositories.NewUserRepository(db), cfg)
		user, err := authService.CreateStaff(cmd.Context(), email, password, firstName, lastName, superuser)
		if err != nil {
			return err
		}
		logger.Info("Staff user created", "id", user.ID, "email", user.Email, "superuser", user.IsSuperuser)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createStaffCmd)
	createStaffCmd.Flags().String("email", "", "Staff email address")
	createStaffCmd.Flags().String("password", "", "Staff password")
	createStaffCmd.Flags().String("first-name", "", "First name")
	createStaffCmd.Flags().String("last-name", "", "Last name")
	createStaffCmd.Flags().Bool("superuser", false, "Grant superuser access")
	_ = createStaffCmd.MarkFlagRequired("email")
	_ = createStaffCmd.MarkFlagRequired("password")
}
