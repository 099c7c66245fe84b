package main

import (
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/backend"
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo household",
		Long: `Create three people, three categories and four transactions through
the application services. Refuses to run on a store that already has
people unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}
	cmd.Flags().Bool("force", false, "Seed even when the store already has data")
	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	ctx := cmd.Context()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if backend.BackendType(a.cfg.DataBackend) == backend.MemoryBackend {
		a.logger.Warn("Seeding the memory backend; data is lost when this command exits")
	}

	if !force {
		people, err := a.ledger.People.List(ctx)
		if err != nil {
			return err
		}
		if len(people) > 0 {
			return fmt.Errorf("store already has %d people, use --force to seed anyway", len(people))
		}
	}

	res, err := a.ledger.Seed(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Seeded %d people, %d categories and %d transactions\n",
		res.People, res.Categories, res.Transactions)
	return nil
}
