package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/keyquorum/share-recovery-backend/cmd/flags"
	"github.com/keyquorum/share-recovery-backend/interfaces"
	"github.com/keyquorum/share-recovery-backend/recovery"
	"github.com/keyquorum/share-recovery-backend/shareparse"
	"github.com/keyquorum/share-recovery-backend/sharestore"
)

// recoveryOutput is the JSON document printed for each reconstructed set.
type recoveryOutput struct {
	Source           string `json:"source"`
	Secret           string `json:"secret"`
	OutlierIndices   []int  `json:"outlier_indices"`
	MaxConsistent    int    `json:"max_consistent"`
	SubsetsEvaluated uint64 `json:"subsets_evaluated"`
}

func main() {
	app := &cli.App{
		Name:           "recover",
		Usage:          "Reconstruct secrets from share-set documents",
		DefaultCommand: "local",
		Commands: []*cli.Command{
			{
				Name:      "local",
				Usage:     "reconstruct from share-set document files",
				ArgsUsage: "FILE [FILE...]",
				Flags:     append([]cli.Flag{flags.WorkersFlag}, flags.CommonFlags...),
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() == 0 {
						return cli.Exit("at least one share-set document file is required", 1)
					}
					logger := flags.SetupLogger(cCtx)
					reconstructor := recovery.NewReconstructor(logger).SetWorkers(cCtx.Int(flags.WorkersFlag.Name))

					for _, path := range cCtx.Args().Slice() {
						set, err := shareparse.ParseShareSetFile(path)
						if err != nil {
							return fmt.Errorf("%s: %w", path, err)
						}
						if err := printResult(cCtx, reconstructor, set, path); err != nil {
							return fmt.Errorf("%s: %w", path, err)
						}
					}
					return nil
				},
			},
			{
				Name:      "fetch",
				Usage:     "reconstruct share sets fetched from a store",
				ArgsUsage: "SET_NAME [SET_NAME...]",
				Flags:     append([]cli.Flag{flags.StoreFlag, flags.WorkersFlag}, flags.CommonFlags...),
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() == 0 {
						return cli.Exit("at least one set name is required", 1)
					}
					logger := flags.SetupLogger(cCtx)
					store, err := buildStore(cCtx, logger)
					if err != nil {
						return err
					}
					reconstructor := recovery.NewReconstructor(logger).SetWorkers(cCtx.Int(flags.WorkersFlag.Name))

					for _, name := range cCtx.Args().Slice() {
						setName, err := interfaces.NewSetName(name)
						if err != nil {
							return err
						}
						document, err := store.FetchSet(cCtx.Context, setName)
						if err != nil {
							return fmt.Errorf("%s: %w", name, err)
						}
						set, err := shareparse.ParseShareSet(document)
						if err != nil {
							return fmt.Errorf("%s: %w", name, err)
						}
						if err := printResult(cCtx, reconstructor, set, name); err != nil {
							return fmt.Errorf("%s: %w", name, err)
						}
					}
					return nil
				},
			},
			{
				Name:      "upload",
				Usage:     "validate a share-set document and store it under a set name",
				ArgsUsage: "SET_NAME FILE",
				Flags:     append([]cli.Flag{flags.StoreFlag}, flags.CommonFlags...),
				Action: func(cCtx *cli.Context) error {
					if cCtx.NArg() != 2 {
						return cli.Exit("expected SET_NAME FILE", 1)
					}
					logger := flags.SetupLogger(cCtx)
					store, err := buildStore(cCtx, logger)
					if err != nil {
						return err
					}

					setName, err := interfaces.NewSetName(cCtx.Args().Get(0))
					if err != nil {
						return err
					}
					document, err := os.ReadFile(cCtx.Args().Get(1))
					if err != nil {
						return err
					}
					// Reject documents that would never reconstruct.
					if _, err := shareparse.ParseShareSet(document); err != nil {
						return err
					}

					if err := store.StoreSet(cCtx.Context, setName, document); err != nil {
						return err
					}
					logger.Info("Share set stored", "set", string(setName), "location", store.LocationURI())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildStore(cCtx *cli.Context, logger *slog.Logger) (interfaces.ShareStore, error) {
	storeURIs := cCtx.StringSlice(flags.StoreFlag.Name)
	if len(storeURIs) == 0 {
		return nil, fmt.Errorf("at least one --store URI is required")
	}
	return sharestore.NewStoreFactory(logger).CreateMultiStore(storeURIs)
}

func printResult(cCtx *cli.Context, reconstructor *recovery.Reconstructor, set *interfaces.ShareSet, source string) error {
	result, err := reconstructor.Reconstruct(cCtx.Context, set)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(recoveryOutput{
		Source:           source,
		Secret:           result.Secret.String(),
		OutlierIndices:   result.OutlierIndices,
		MaxConsistent:    result.MaxConsistent,
		SubsetsEvaluated: result.SubsetsEvaluated,
	})
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
