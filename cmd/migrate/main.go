package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/admin"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/config"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/vault"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/utilities"
)

const usage = `usage: migrate [-seed-admin username] <up|status|down>

Applies the embedded schema migrations to DATABASE_URL.
-seed-admin creates the admin account with the password from
ADMIN_SEED_PASSWORD; it is stored as plaintext until the first login.`

func main() {
	seedAdmin := flag.String("seed-admin", "", "create an admin with this username after migrating")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}
	if err := run(cmd, *seedAdmin); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd, seedAdmin string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	lg, err := utilities.Init(cfg.Logger())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer lg.Sync()
	sugar := lg.Sugar()

	if cfg.NeedsVault() {
		vc, err := vault.New()
		if err != nil {
			return err
		}
		if err := cfg.ResolveSecrets(ctx, vc); err != nil {
			return fmt.Errorf("resolve secrets: %w", err)
		}
	}

	db, err := database.Connect(cfg.Database())
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	p, err := database.NewMigrator(db)
	if err != nil {
		return err
	}

	switch cmd {
	case "up":
		results, err := p.Up(ctx)
		for _, r := range results {
			sugar.Infow("migration applied", "version", r.Source.Version, "file", r.Source.Path, "duration", r.Duration)
		}
		if err != nil {
			return err
		}
	case "down":
		r, err := p.Down(ctx)
		if err != nil {
			return err
		}
		if r != nil {
			sugar.Infow("migration rolled back", "version", r.Source.Version, "file", r.Source.Path)
		}
	case "status":
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			sugar.Infow("migration", "version", s.Source.Version, "file", s.Source.Path, "state", string(s.State), "applied_at", s.AppliedAt)
		}
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}

	if seedAdmin == "" {
		return nil
	}
	password := os.Getenv("ADMIN_SEED_PASSWORD")
	if password == "" {
		return errors.New("ADMIN_SEED_PASSWORD must be set with -seed-admin")
	}
	store := admin.NewCredentialStore(db, nil, nil)
	id, err := store.SeedPlaintext(ctx, seedAdmin, password)
	if errors.Is(err, admin.ErrUsernameTaken) {
		sugar.Warnw("admin already exists", "username", seedAdmin)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	sugar.Infow("admin seeded", "id", id, "username", seedAdmin)
	return nil
}
