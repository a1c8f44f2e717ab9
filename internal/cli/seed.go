package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gighall/gighall/internal/daemon"
	"github.com/gighall/gighall/internal/domain"
	"github.com/gighall/gighall/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the store with a demo dataset",
	Long: `Write a small demo dataset: four profiles, contracts in each
lifecycle state, and a mix of paid and unpaid jobs. Intended for local
development; run once against an empty store.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.Store.Dir, 0o755); err != nil {
		return err
	}
	db, err := sqlite.Open(cfg.Store.Dir)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := Seed(ctx, db); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "demo dataset written to", cfg.Store.Dir)
	return nil
}

// Seed writes the demo dataset. Exported for reuse in tests.
func Seed(ctx context.Context, db *sqlite.DB) error {
	profiles := []domain.Profile{
		{FirstName: "Nora", LastName: "Vale", Profession: "Engineer", Type: domain.ProfileClient, Balance: 115000},
		{FirstName: "Iris", LastName: "Okafor", Profession: "Designer", Type: domain.ProfileClient, Balance: 23100},
		{FirstName: "Theo", LastName: "Marsh", Profession: "Plumber", Type: domain.ProfileContractor, Balance: 6400},
		{FirstName: "Dana", LastName: "Brook", Profession: "Programmer", Type: domain.ProfileContractor, Balance: 121500},
	}
	var profileIDs []int64
	for _, p := range profiles {
		id, err := db.InsertProfile(ctx, p)
		if err != nil {
			return err
		}
		profileIDs = append(profileIDs, id)
	}

	contracts := []domain.Contract{
		{Terms: "bla bla bla", Status: domain.ContractTerminated, ClientID: profileIDs[0], ContractorID: profileIDs[2]},
		{Terms: "bla bla bla", Status: domain.ContractInProgress, ClientID: profileIDs[0], ContractorID: profileIDs[3]},
		{Terms: "bla bla bla", Status: domain.ContractInProgress, ClientID: profileIDs[1], ContractorID: profileIDs[2]},
		{Terms: "bla bla bla", Status: domain.ContractNew, ClientID: profileIDs[1], ContractorID: profileIDs[3]},
	}
	var contractIDs []int64
	for _, c := range contracts {
		id, err := db.InsertContract(ctx, c)
		if err != nil {
			return err
		}
		contractIDs = append(contractIDs, id)
	}

	paidAt := time.Now().AddDate(0, 0, -14)
	jobs := []domain.Job{
		{Description: "fix faucet", Price: 20000, Paid: true, PaymentDate: &paidAt, ContractID: contractIDs[0]},
		{Description: "build backend", Price: 20100, ContractID: contractIDs[1]},
		{Description: "ship frontend", Price: 20200, ContractID: contractIDs[1]},
		{Description: "unclog drain", Price: 20000, ContractID: contractIDs[2]},
		{Description: "install heater", Price: 21400, Paid: true, PaymentDate: &paidAt, ContractID: contractIDs[2]},
		{Description: "design logo", Price: 20000, ContractID: contractIDs[3]},
	}
	for _, j := range jobs {
		if _, err := db.InsertJob(ctx, j); err != nil {
			return err
		}
	}
	return nil
}
