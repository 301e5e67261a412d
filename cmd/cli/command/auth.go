package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Manage the stored identity: login with a token, logout, show who you are`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login with an identity token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		token, _ := cmd.Flags().GetString("token")

		sess, err := rt.sessions.Login(cmd.Context(), token, rt.gw)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println("✓ Successfully logged in!")
		fmt.Printf("User ID: %s\n", sess.UserID)
		fmt.Printf("Name: %s\n", sess.UserName)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		if err := rt.sessions.Logout(); err != nil {
			return fmt.Errorf("logout failed: %w", err)
		}

		fmt.Println("✓ Successfully logged out!")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the stored identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		sess := rt.sessions.Refresh()
		if !sess.LoggedIn() {
			fmt.Println("Not logged in. Run 'chatrum auth login' first.")
			return nil
		}

		fmt.Printf("User ID: %s\n", sess.UserID)
		fmt.Printf("Name: %s\n", sess.UserName)
		if sess.ProfilePicture != "" {
			fmt.Printf("Profile Picture: %s\n", sess.ProfilePicture)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("token", "t", "", "Identity token (JWT)")
	loginCmd.MarkFlagRequired("token")
}
