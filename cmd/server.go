package cmd

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/tablebook/internal/availability"
	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/catalog"
	"github.com/example/tablebook/internal/churn"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/web"
	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Run the reservation calendar web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			cat, store, resolver, desk := newEngine(cfg)

			unsubscribe := store.Subscribe(func(snap availability.Snapshot) {
				free := 0
				for _, v := range snap {
					if v {
						free++
					}
				}
				log.Printf("availability changed: %d/%d slots free", free, len(snap))
			})
			defer unsubscribe()

			if cfg.ChurnEnabled {
				sim := &churn.Simulator{
					Store:       store,
					Interval:    cfg.ChurnInterval,
					KeysPerTick: cfg.ChurnKeys,
					Rand:        rand.New(rand.NewSource(cfg.Seed + 1)),
				}
				go func() { _ = sim.Run(ctx) }()
			}

			ws := &web.Server{
				Catalog:  cat,
				Store:    store,
				Resolver: resolver,
				Desk:     desk,
				Drafts:   web.NewDraftManager(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32)),
				BaseURL:  cfg.BaseURL,
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}
}

// newEngine wires the store, resolver and desk from one config.
func newEngine(cfg *config.Config) (catalog.Catalog, *availability.Store, booking.Resolver, *booking.Desk) {
	cat := cfg.Catalog()
	seed := availability.SeedRandom
	if cfg.AllFree {
		seed = availability.SeedAllFree
	}
	store := availability.NewStore(cat, seed, rand.New(rand.NewSource(cfg.Seed)))
	resolver := booking.Resolver{Catalog: cat, Store: store}
	desk := booking.NewDesk(cat, store)
	return cat, store, resolver, desk
}
