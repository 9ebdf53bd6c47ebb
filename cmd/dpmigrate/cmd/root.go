// Package cmd implements the dpmigrate command line interface.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/panos-tools/dpmigrate/internal/engine"
	"github.com/panos-tools/dpmigrate/internal/executor"
	"github.com/panos-tools/dpmigrate/internal/journal"
	"github.com/panos-tools/dpmigrate/internal/logging"
	"github.com/panos-tools/dpmigrate/internal/snapshot"
	"github.com/panos-tools/dpmigrate/internal/tree"
	"github.com/panos-tools/dpmigrate/models"
	"github.com/panos-tools/dpmigrate/sdk"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	storeURL string
	login    string
	password string
	certFile string
	keyFile  string
	insecure bool

	tenantName string
	appName    string

	doParameters bool
	doClusters   bool
	doCleanup    bool
	doRevert     bool

	dryRun        bool
	debug         bool
	noInput       bool
	journalPath   string
	snapshotFiles []string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dpmigrate",
	Short: "dpmigrate - PAN-OS device package 1.2 to 1.3 migration",
	Long: `dpmigrate migrates tenant configuration built on the PAN-OS 1.2
device package to the 1.3 schema, in place and without service rebuild.

The migration runs in three phases:
  --parameters   create Zone/Vlan/StaticRoute folders, rename legacy folder
                 kinds and add references; legacy scalars are retained
  --clusters     switch L4-7 clusters to the 1.3 device package
  --cleanup      remove the legacy scalar parameters (irreversible)

Phases can be combined in one invocation and always run in that order.
--revert combined with --parameters or --clusters undoes the named phase
using the inverse recorded when it was applied. Once --cleanup has run,
no revert path exists.`,
	SilenceUsage: true,
	RunE:         runMigration,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&storeURL, "url", "", "Configuration store URL")
	rootCmd.Flags().StringVar(&login, "login", "", "Login for session authentication")
	rootCmd.Flags().StringVar(&password, "password", "", "Password for session authentication")
	rootCmd.Flags().StringVar(&certFile, "cert", "", "Client certificate for TLS authentication")
	rootCmd.Flags().StringVar(&keyFile, "key", "", "Private key for the client certificate")
	rootCmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS server certificate verification")

	rootCmd.Flags().StringVar(&tenantName, "tenant", "", "Tenant to migrate (prompted when omitted)")
	rootCmd.Flags().StringVar(&appName, "app", "", "Application profile to migrate (prompted when omitted)")

	rootCmd.Flags().BoolVar(&doParameters, "parameters", false, "Run the parameters phase")
	rootCmd.Flags().BoolVar(&doClusters, "clusters", false, "Run the clusters phase")
	rootCmd.Flags().BoolVar(&doCleanup, "cleanup", false, "Remove legacy scalar parameters (irreversible)")
	rootCmd.Flags().BoolVar(&doRevert, "revert", false, "Undo the named phase instead of applying it")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the plan without mutating anything")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt; fail when the scope is ambiguous")
	rootCmd.Flags().StringVar(&journalPath, "journal", "dpmigrate.db", "Path to the revert journal database")
	rootCmd.Flags().StringSliceVar(&snapshotFiles, "snapshotfiles", nil,
		"Plan against captured snapshot files instead of a live store (implies --dry-run)")
}

// validateActions enforces the flag combination rules.
func validateActions() error {
	if !doParameters && !doClusters && !doCleanup && !doRevert {
		return fmt.Errorf("nothing to do: pass at least one of --parameters, --clusters, --cleanup")
	}
	if doRevert && !doParameters && !doClusters {
		return fmt.Errorf("--revert needs the phase to undo: combine it with --parameters or --clusters")
	}
	if doRevert && doCleanup {
		return fmt.Errorf("--cleanup cannot be combined with --revert")
	}
	if len(snapshotFiles) == 0 && storeURL == "" {
		return fmt.Errorf("no store: pass --url or --snapshotfiles")
	}
	return nil
}

func runMigration(cmd *cobra.Command, args []string) error {
	if err := validateActions(); err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	if debug {
		logCfg.Level = "debug"
	}
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	ctx := cmd.Context()

	var store tree.Store
	if len(snapshotFiles) > 0 {
		// Snapshots are read-only; never attempt to apply against them.
		dryRun = true
		store, err = snapshot.Load(snapshotFiles...)
		if err != nil {
			return err
		}
	} else {
		client, err := sdk.NewClient(sdk.ClientConfig{
			BaseURL:            storeURL,
			Login:              login,
			Password:           password,
			CertFile:           certFile,
			KeyFile:            keyFile,
			InsecureSkipVerify: insecure,
		})
		if err != nil {
			return err
		}
		store = client
	}

	// Dry-run opens the journal too: planning a revert reads the recorded
	// inverse even when nothing will be applied.
	jnl, err := journal.Open(journalPath, logger)
	if err != nil {
		return err
	}
	defer jnl.Close()

	eng := engine.New(engine.Config{
		Store:   store,
		Journal: jnl,
		Logger:  logger,
		DryRun:  dryRun,
	})

	needApp := doParameters || doCleanup
	scope, err := engine.ResolveScope(ctx, store, newSelector(tenantName, appName, noInput), needApp)
	if err != nil {
		return describeScopeError(err)
	}

	changed := false
	runPhase := func(name string, run func() error) error {
		if err := run(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	show := func(report *executor.Report) {
		if !report.Empty() {
			changed = true
			fmt.Println(report.Render())
		}
	}

	if doRevert {
		// Undo in reverse phase order.
		if doClusters {
			if err := runPhase("revert clusters", func() error {
				report, err := eng.RevertClusters(ctx, scope.Tenant)
				if report != nil {
					show(report)
				}
				return err
			}); err != nil {
				return err
			}
		}
		if doParameters {
			if err := runPhase("revert parameters", func() error {
				report, err := eng.RevertParameters(ctx, scope)
				if report != nil {
					show(report)
				}
				return err
			}); err != nil {
				return err
			}
		}
	} else {
		if doParameters {
			if err := runPhase("parameters", func() error {
				report, err := eng.PrepareParameters(ctx, scope)
				if report != nil {
					show(report)
				}
				return err
			}); err != nil {
				return err
			}
		}
		if doClusters {
			if err := runPhase("clusters", func() error {
				report, err := eng.MigrateClusters(ctx, scope.Tenant)
				if report != nil {
					show(report)
				}
				return err
			}); err != nil {
				return err
			}
		}
		if doCleanup {
			if err := runPhase("cleanup", func() error {
				report, err := eng.Cleanup(ctx, scope)
				if report != nil {
					show(report)
				}
				return err
			}); err != nil {
				return err
			}
		}
	}

	if !changed {
		fmt.Println("No changes made.")
	}
	return nil
}

// describeScopeError turns an ambiguous-scope failure into an actionable
// message listing what is available.
func describeScopeError(err error) error {
	var amb *models.AmbiguousSelectionError
	if errors.As(err, &amb) {
		return fmt.Errorf("%w (pass --%s or drop --no-input to pick interactively)",
			amb, flagForKind(amb.Kind))
	}
	return err
}

func flagForKind(kind string) string {
	if kind == "tenant" {
		return "tenant"
	}
	return "app"
}
