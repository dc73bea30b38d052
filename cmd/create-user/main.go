package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"solve_litigation_go/config"
	"solve_litigation_go/db"
	"solve_litigation_go/logger"
	"solve_litigation_go/models"
	"solve_litigation_go/services"

	"github.com/spf13/cobra"
)

var (
	fullName    string
	email       string
	phoneNumber string
	userType    string
	password    string
)

var rootCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a verified admin or staff account",
	Long: `Creates an account directly in the database. Use it to bootstrap the
first admin, who can then create staff and lawyers through the API.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&fullName, "name", "", "full name")
	rootCmd.Flags().StringVar(&email, "email", "", "email address")
	rootCmd.Flags().StringVar(&phoneNumber, "phone", "", "mobile number")
	rootCmd.Flags().StringVar(&userType, "type", models.UserTypeAdmin, "account type: admin or staff")
	rootCmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	_ = rootCmd.MarkFlagRequired("name")
	_ = rootCmd.MarkFlagRequired("email")
	_ = rootCmd.MarkFlagRequired("phone")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if userType != models.UserTypeAdmin && userType != models.UserTypeStaff {
		return fmt.Errorf("--type must be %q or %q", models.UserTypeAdmin, models.UserTypeStaff)
	}

	cfg := config.Load()
	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Log.Sync()

	if err := db.Initialize(db.Options{
		Path:        cfg.DBPath,
		TursoURL:    cfg.TursoDatabaseURL,
		TursoToken:  cfg.TursoAuthToken,
		Environment: cfg.Environment,
	}); err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return err
	}

	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	service := services.NewAccountService(db.DB, cfg, nil)
	user, err := service.ProvisionAccount(services.RegisterInput{
		FullName:    fullName,
		Email:       email,
		PhoneNumber: phoneNumber,
		Password:    password,
	}, userType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "User created successfully")
	fmt.Fprintf(out, "  ID:    %s\n", user.ID)
	fmt.Fprintf(out, "  Name:  %s\n", user.FullName)
	fmt.Fprintf(out, "  Email: %s\n", user.Email)
	fmt.Fprintf(out, "  Type:  %s\n", user.UserType)
	return nil
}
