// Command demo walks the three client facades through a simulated
// login against an in-memory token exchanger: the strictly blocking
// SyncClient, the future-based AsyncClient, and the context-aware
// SmartClient, all sharing one session store.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/claims"
	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/token/exchangefake"
)

const demoIssuer = "https://auth.demo.local"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running demo: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	if err := godotenv.Load(); err == nil {
		fmt.Println("loaded .env")
	}

	displayAppname("auth client")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg := config.FromEnv()
	if cfg.ClientID == "" {
		// Standalone demo credentials; a real deployment sets AUTH_CLIENT_*.
		cfg = config.ClientConfig{
			ClientID:     "demo-client",
			ClientSecret: "demo-secret",
			Issuer:       demoIssuer,
			RedirectURI:  "http://localhost:3000/callback",
		}
	}

	exchanger := exchangefake.NewFakeExchanger(cfg.Issuer)
	exchanger.StubTokenSet(demoTokenSet())
	store := sessions.NewMemoryStore()

	shared := []auth.Option{
		auth.WithStore(store),
		auth.WithExchanger(exchanger),
		auth.WithSessionID("demo-session"),
		auth.WithLogger(logger),
	}

	if err := syncExample(cfg, shared); err != nil {
		return err
	}
	if err := asyncExample(cfg, shared); err != nil {
		return err
	}
	if err := smartExample(cfg, shared); err != nil {
		return err
	}
	return accessorExample(cfg, shared)
}

func syncExample(cfg config.ClientConfig, shared []auth.Option) error {
	fmt.Println("\n--- sync client ---")
	client, err := auth.NewSyncClient(cfg, shared...)
	if err != nil {
		return errors.Wrap(err, "NewSyncClient")
	}

	fmt.Printf("authenticated: %v\n", client.IsAuthenticated())

	ctx := context.Background()
	if _, err := client.GetUserInfo(ctx); err != nil {
		fmt.Printf("user info before login: %s\n", err)
	}

	session, err := client.Login(ctx, auth.LoginOptions{})
	if err != nil {
		return errors.Wrap(err, "Login")
	}
	fmt.Printf("logged in, session expires %s\n", session.ExpiresAt.Format(time.RFC3339))

	profile, err := client.GetUserInfo(ctx)
	if err != nil {
		return errors.Wrap(err, "GetUserInfo")
	}
	fmt.Printf("user: %s <%s>\n", profile.Name, profile.Email)
	return nil
}

func asyncExample(cfg config.ClientConfig, shared []auth.Option) error {
	fmt.Println("\n--- async client ---")
	client, err := auth.NewAsyncClient(cfg, shared...)
	if err != nil {
		return errors.Wrap(err, "NewAsyncClient")
	}

	// IsAuthenticated stays synchronous even on the async facade.
	fmt.Printf("authenticated: %v\n", client.IsAuthenticated())

	ctx := dispatch.WithScheduler(context.Background())
	future := client.GetUserInfoAsync(ctx)
	profile, err := future.Await(ctx)
	if err != nil {
		return errors.Wrap(err, "GetUserInfoAsync")
	}
	fmt.Printf("user (async): %s\n", profile.Email)
	return nil
}

func smartExample(cfg config.ClientConfig, shared []auth.Option) error {
	fmt.Println("\n--- smart client ---")
	client, err := auth.NewSmartClient(cfg, shared...)
	if err != nil {
		return errors.Wrap(err, "NewSmartClient")
	}

	// Plain context: the smart facade runs blocking.
	profile, err := client.GetUserInfo(context.Background())
	if err != nil {
		return errors.Wrap(err, "GetUserInfo (blocking context)")
	}
	fmt.Printf("user (blocking context): %s\n", profile.Email)

	// Scheduler-marked context: the same call runs suspending, and the
	// blocking form emits a diagnostics warning suggesting the async one.
	ctx := dispatch.WithScheduler(context.Background())
	profile, err = client.GetUserInfo(ctx)
	if err != nil {
		return errors.Wrap(err, "GetUserInfo (suspending context)")
	}
	fmt.Printf("user (suspending context): %s\n", profile.Email)

	select {
	case warning := <-client.Warnings():
		fmt.Printf("diagnostics: %s\n", warning.Warning())
	default:
	}
	return nil
}

func accessorExample(cfg config.ClientConfig, shared []auth.Option) error {
	fmt.Println("\n--- claims / permissions / roles / feature flags ---")
	client, err := auth.NewClient(dispatch.ModeAuto, cfg, shared...)
	if err != nil {
		return errors.Wrap(err, "NewClient")
	}

	ctx := dispatch.WithScheduler(context.Background())
	accessors := client.Auth()

	permissions, err := accessors.Permissions.GetPermissions(ctx).Await(ctx)
	if err != nil {
		return errors.Wrap(err, "GetPermissions")
	}
	fmt.Printf("permissions (%s): %v\n", permissions.OrgCode, permissions.Permissions)

	roles, err := accessors.Roles.GetRoles(ctx).Await(ctx)
	if err != nil {
		return errors.Wrap(err, "GetRoles")
	}
	for _, role := range roles.Roles {
		fmt.Printf("role: %s (%s)\n", role.Key, role.Name)
	}

	flag, err := accessors.FeatureFlags.GetFlag(ctx, "theme", claims.WithDefaultValue("light")).Await(ctx)
	if err != nil {
		return errors.Wrap(err, "GetFlag")
	}
	fmt.Printf("theme flag: %v (default: %v)\n", flag.Value, flag.IsDefault)
	return nil
}

// demoTokenSet builds a signed token carrying the claims the accessors
// read, so the demo works without a live authorization server.
func demoTokenSet() *token.TokenSet {
	now := time.Now()
	claimSet := jwtlib.MapClaims{
		"sub":         "user-1",
		"email":       "jane.doe@example.com",
		"name":        "Jane Doe",
		"org_code":    "org_demo",
		"permissions": []string{"read:todos", "create:todos"},
		"roles": []map[string]any{
			{"id": "role-1", "key": "admin", "name": "Administrator"},
		},
		"feature_flags": map[string]any{
			"theme":        map[string]any{"t": "s", "v": "pink"},
			"is_dark_mode": map[string]any{"t": "b", "v": true},
		},
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
		"iss": demoIssuer,
	}
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claimSet).SignedString([]byte("demo-signing-key"))
	if err != nil {
		panic(err)
	}
	return &token.TokenSet{
		AccessToken:  signed,
		RefreshToken: "demo-refresh-token",
		TokenType:    "Bearer",
		Expiry:       now.Add(time.Hour),
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
