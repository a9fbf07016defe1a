// stocklotctl is a small command-line front end for the Stock Your Lot
// backend: sign in, inspect the current session, accept invites, and list
// the resources the signed-in role can see.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/stockyourlot/stocklot-client/client"
	"github.com/stockyourlot/stocklot-client/guard"
	"github.com/stockyourlot/stocklot-client/internal/config"
	"github.com/stockyourlot/stocklot-client/session"
	"github.com/stockyourlot/stocklot-client/token"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(zerolog.WarnLevel)
	if os.Getenv("STOCKLOT_DEBUG") != "" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	store := newStore(cfg)
	api, err := client.New(cfg.APIBase(), store,
		client.WithLogger(logger),
		client.WithUnauthorizedHandler(func() {
			fmt.Fprintln(os.Stderr, "Your session has expired. Please sign in again.")
		}),
	)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		usage(cfg)
		return nil
	}

	ctx := context.Background()
	switch args[0] {
	case "login":
		return cmdLogin(ctx, api, args[1:])
	case "logout":
		return cmdLogout(api)
	case "whoami":
		return cmdWhoami(store)
	case "invite":
		return cmdInvite(ctx, api, args[1:])
	case "purchases":
		return cmdPurchases(ctx, api, store)
	case "users":
		return cmdUsers(ctx, api, store)
	default:
		usage(cfg)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// newStore picks the session persistence: sealed at rest when a passphrase
// is configured, plain JSON otherwise.
func newStore(cfg config.Config) session.Store {
	if cfg.SessionPassphrase != "" {
		return session.NewSealedFileStore(cfg.SessionPath(), cfg.SessionPassphrase)
	}
	return session.NewFileStore(cfg.SessionPath())
}

func usage(cfg config.Config) {
	figure.NewFigure(cfg.AppName, "cybermedium", true).Print()
	fmt.Println()
	fmt.Println("Usage: stocklotctl <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login -email <email> -password <password>   sign in")
	fmt.Println("  logout                                      clear the stored session")
	fmt.Println("  whoami                                      show the current session")
	fmt.Println("  invite -token <token> -password <password>  accept an invitation")
	fmt.Println("  purchases                                   list your purchases")
	fmt.Println("  users                                       list users (admin only)")
	fmt.Printf("\nBackend: %s\n", cfg.APIBase())
}

func cmdLogin(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("please enter your email")
	}
	if *password == "" {
		return fmt.Errorf("please enter your password")
	}

	result, err := api.Login(ctx, *email, *password)
	if err != nil {
		return describe(err)
	}
	fmt.Printf("Signed in as %s (%s)\n", result.DisplayName, result.LandingRole)
	if result.DealerName != "" {
		fmt.Printf("Dealership: %s\n", result.DealerName)
	}
	return nil
}

func cmdLogout(api *client.Client) error {
	if err := api.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func cmdWhoami(store session.Store) error {
	s := store.Get()
	if !s.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("Name:         %s\n", s.DisplayName)
	fmt.Printf("Landing role: %s\n", s.LandingRole)
	if s.DealerName != "" {
		fmt.Printf("Dealership:   %s\n", s.DealerName)
	}
	if len(s.RawRoles) > 0 {
		fmt.Printf("Roles:        %v\n", s.RawRoles)
	}
	if claims, err := token.Peek(s.Token); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Printf("Token expiry: %s", claims.ExpiresAt.Format(time.RFC1123))
		if claims.Expired(time.Now()) {
			fmt.Print(" (likely expired)")
		}
		fmt.Println()
	}
	return nil
}

func cmdInvite(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("invite", flag.ExitOnError)
	inviteToken := fs.String("token", "", "invite token from the emailed link")
	password := fs.String("password", "", "new account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inviteToken == "" {
		return fmt.Errorf("please provide the invite token")
	}

	details, err := api.ValidateInvite(ctx, *inviteToken)
	if err != nil {
		return describe(err)
	}
	if !details.Valid {
		return fmt.Errorf("this invite link is missing a token, has already been used, or has expired")
	}
	fmt.Printf("Invitation for %s", details.Email)
	if details.DealershipName != "" {
		fmt.Printf(" at %s", details.DealershipName)
	}
	fmt.Println()

	if *password == "" {
		return fmt.Errorf("please provide a password to finish accepting")
	}
	if len(*password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	result, err := api.AcceptInvite(ctx, *inviteToken, *password)
	if err != nil {
		return describe(err)
	}
	if result == nil {
		fmt.Println("Your account is active. Sign in with your email and password.")
		return nil
	}
	fmt.Printf("Signed in as %s (%s)\n", result.DisplayName, result.LandingRole)
	return nil
}

func cmdPurchases(ctx context.Context, api *client.Client, store session.Store) error {
	g := guard.New(store)
	if !g.IsAuthenticated() {
		return fmt.Errorf("not signed in - run: stocklotctl login")
	}
	purchases, err := api.MyPurchases(ctx)
	if err != nil {
		return describe(err)
	}
	if len(purchases) == 0 {
		fmt.Println("No purchases yet.")
		return nil
	}
	for _, p := range purchases {
		fmt.Printf("%-12s %-20s %-18s %d %s %s  $%.2f\n",
			p.Date, p.Dealership, p.VIN, p.VehicleYear, p.VehicleMake, p.VehicleModel, p.PurchasePrice)
	}
	return nil
}

func cmdUsers(ctx context.Context, api *client.Client, store session.Store) error {
	g := guard.New(store)
	switch g.Authorize("ADMIN") {
	case guard.SignInRequired:
		return fmt.Errorf("not signed in - run: stocklotctl login")
	case guard.Forbidden:
		// Insufficient privilege sends you back to your landing area,
		// not to sign-in.
		return fmt.Errorf("this screen is admin-only; your area is %q", g.Landing())
	}
	users, err := api.ListUsers(ctx)
	if err != nil {
		return describe(err)
	}
	for _, u := range users {
		fmt.Printf("%-24s %-32s %v\n", u.Username, u.Email, u.Roles)
	}
	return nil
}

// describe keeps the three failure modes textually distinct: session expiry,
// a backend rejection with its own message, and a transport failure.
func describe(err error) error {
	var apiErr *client.APIError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, client.ErrSessionExpired):
		return fmt.Errorf("your session has expired, please sign in again")
	case errors.As(err, &apiErr):
		return apiErr
	default:
		return fmt.Errorf("could not reach the server: %v", err)
	}
}
