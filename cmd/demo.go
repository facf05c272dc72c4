package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/config"
	"github.com/jaswdr/faker"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var count int

	c := &cobra.Command{
		Use:   "demo",
		Short: "Book random reservations against a fresh store and print the outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			cat, store, resolver, desk := newEngine(cfg)
			rng := rand.New(rand.NewSource(cfg.Seed + 2))
			fake := faker.NewWithSeed(rand.NewSource(cfg.Seed + 3))

			booked, rejected := 0, 0
			for i := 0; i < count; i++ {
				days := cat.Window.Days()
				res := booking.Reservation{
					Date:         days[rng.Intn(len(days))],
					Time:         cat.TimeSlots[rng.Intn(len(cat.TimeSlots))],
					Region:       cat.Regions[rng.Intn(len(cat.Regions))].Name,
					PartySize:    1 + rng.Intn(6),
					Name:         fake.Person().Name(),
					Email:        fake.Internet().Email(),
					Phone:        fake.Phone().Number(),
					HasChildren:  rng.Float64() < 0.3,
					WantsSmoking: rng.Float64() < 0.2,
				}

				conf, err := desk.Commit(res)
				if errors.Is(err, booking.ErrSlotUnavailable) {
					rejected++
					alt := resolver.Alternatives(booking.Draft{
						Date: res.Date, Time: res.Time, Region: res.Region, PartySize: res.PartySize,
					})
					fmt.Fprintf(os.Stdout, "MISS  %s %s %-20s party=%-2d (%d other dates, %d times, %d regions free)\n",
						res.Date.Format("2006-01-02"), res.Time, res.Region, res.PartySize,
						len(alt.Dates), len(alt.Times), len(alt.Regions))
					continue
				}
				if err != nil {
					return err
				}
				booked++
				fmt.Fprintf(os.Stdout, "BOOK  %s %s %-20s party=%-2d %s (%s)\n",
					res.Date.Format("2006-01-02"), res.Time, res.Region, res.PartySize, res.Name, conf.ID)
			}

			free := 0
			for _, v := range store.Snapshot() {
				if v {
					free++
				}
			}
			fmt.Fprintf(os.Stdout, "booked=%d rejected=%d ledger=%d free=%d\n",
				booked, rejected, len(desk.Reservations()), free)
			return nil
		},
	}

	c.Flags().IntVar(&count, "count", 20, "number of reservation attempts")
	return c
}
