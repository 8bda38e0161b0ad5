// CLI tool to create an account with a bcrypt-hashed password and a fresh trial.
// Usage: go run ./cmd/create-user [-trial-days 7] [-subscribed]
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"lg/fitvision-api/internal/signup"
)

type createUserConfig struct {
	DBURL     string `env:"DB_URL"     env-required:"true"`
	TrialDays int    `env:"TRIAL_DAYS" env-default:"7"`
}

type newUser struct {
	Name     string
	Email    string
	Password string
}

func main() {
	_ = godotenv.Load()
	var cfg createUserConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		os.Exit(1)
	}

	trialDays := flag.Int("trial-days", cfg.TrialDays, "length of the free trial in days")
	subscribed := flag.Bool("subscribed", false, "create the account as already subscribed")
	flag.Parse()

	u, err := promptUser(os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.DBURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	authToken := uuid.New().String()
	trialEndsAt := time.Now().UTC().AddDate(0, 0, *trialDays)

	var userID int
	err = conn.QueryRow(ctx,
		`INSERT INTO accounts (name, email, password_hash, auth_token, trial_ends_at, subscribed)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		u.Name, u.Email, string(hash), authToken, trialEndsAt, *subscribed,
	).Scan(&userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating account: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nAccount created successfully!\n")
	fmt.Printf("  ID:          %d\n", userID)
	fmt.Printf("  Email:       %s\n", u.Email)
	fmt.Printf("  Trial ends:  %s\n", trialEndsAt.Format(time.RFC3339))
	fmt.Printf("  Auth Token:  %s\n", authToken)
}

// promptUser reads name, email and password, one per line.
func promptUser(in io.Reader, out io.Writer) (newUser, error) {
	reader := bufio.NewReader(in)
	read := func(label string) string {
		fmt.Fprintf(out, "%s: ", label)
		s, _ := reader.ReadString('\n')
		return strings.TrimSpace(s)
	}

	u := newUser{
		Name:     read("Name"),
		Email:    signup.NormalizeEmail(read("Email")),
		Password: read("Password"),
	}
	switch {
	case u.Name == "":
		return newUser{}, fmt.Errorf("name is required")
	case !signup.ValidEmail(u.Email):
		return newUser{}, fmt.Errorf("email %q is not valid", u.Email)
	case !signup.ValidPassword(u.Password):
		return newUser{}, fmt.Errorf("password must be at least %d characters", signup.MinPasswordLen)
	}
	return u, nil
}
