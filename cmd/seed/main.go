package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloudstorage/internal/auth"
	"cloudstorage/internal/bootstrap"
	"cloudstorage/internal/config"
	"cloudstorage/internal/logger"
	"cloudstorage/internal/seed"

	"github.com/google/uuid"
)

func main() {
	ownerFlag := flag.String("owner", "", "Owner id the fixture is written for (required)")
	file := flag.String("file", "", "YAML fixture with files and folder trees")
	parentFlag := flag.String("parent", "", "Folder id to place the fixture under (default: top level)")
	clean := flag.Bool("clean", false, "Remove all of the owner's folders and files first")
	token := flag.Duration("token", 0, "Also print an HS256 access token for the owner valid this long")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load configuration", err)
	}

	logg := logger.NewLogger("seed", cfg.LogLevel)

	if cfg.Environment == "prod" && *clean {
		fail("refusing -clean", fmt.Errorf("environment is prod"))
	}

	owner, err := uuid.Parse(*ownerFlag)
	if err != nil || owner == uuid.Nil {
		flag.Usage()
		fail("parse -owner", fmt.Errorf("a non-nil uuid is required"))
	}

	var parentID *uuid.UUID
	if *parentFlag != "" {
		id, err := uuid.Parse(*parentFlag)
		if err != nil {
			fail("parse -parent", err)
		}
		parentID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg.Storage, logg)
	if err != nil {
		fail("open store", err)
	}
	defer store.Close()

	locker, closeLocker, err := bootstrap.NewLocker(ctx, cfg.Lock, logg)
	if err != nil {
		fail("create owner lock", err)
	}
	defer closeLocker()

	services := bootstrap.NewServices(store, locker, cfg.Tree, logg)
	seeder := seed.NewTreeSeeder(services.Tree, services.Files, logg)

	if *clean {
		if err := seeder.Clean(ctx, owner); err != nil {
			fail("clean", err)
		}
	}

	if *file != "" {
		fx, err := seed.LoadFile(*file)
		if err != nil {
			fail("load fixture", err)
		}
		res, err := seeder.Seed(ctx, owner, fx, parentID)
		if err != nil {
			fail("seed", err)
		}
		logg.Info().Int("folders", res.Folders).Int("files", res.Files).Msg("seeding complete")
	}

	if *token > 0 {
		signer, err := auth.NewHMACVerifier(cfg.Auth.JWTSecret, logg)
		if err != nil {
			fail("create token signer", err)
		}
		tok, err := signer.Sign(owner.String(), *token)
		if err != nil {
			fail("sign token", err)
		}
		fmt.Println(tok)
	}
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "seed: %s: %v\n", step, err)
	os.Exit(1)
}
