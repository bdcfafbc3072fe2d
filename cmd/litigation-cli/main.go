package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"litigation_dashboard_go/config"
	"litigation_dashboard_go/db"
	"litigation_dashboard_go/logging"
	"litigation_dashboard_go/models"
	"litigation_dashboard_go/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every subcommand needs once the root command has opened the database
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	importer *services.DecisionImporter
}

func main() {
	a := &app{}
	root := &cobra.Command{
		Use:           "litigation-cli",
		Short:         "Manage firms, import decisions and print favorability reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.AddCommand(
		newSeedCmd(a),
		newFirmCmd(a),
		newCourtCmd(a),
		newImportCmd(a),
		newReportCmd(a),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) open() error {
	a.cfg = config.Load()

	logger, err := logging.New(a.cfg.Environment, a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	database, err := db.Open(db.Options{
		Path:        a.cfg.DBPath,
		TursoURL:    a.cfg.TursoDatabaseURL,
		TursoToken:  a.cfg.TursoAuthToken,
		Environment: "production", // keep SQL logging quiet on the terminal
	})
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(database, models.All()...); err != nil {
		return err
	}
	a.db = database

	catalog, err := services.LoadCompanyCatalog(a.cfg.CompanyCatalogPath)
	if err != nil {
		return err
	}
	a.importer = services.NewDecisionImporter(database,
		services.WithCompanyCatalog(catalog),
		services.WithMaxRows(a.cfg.MaxImportRows),
		services.WithLogger(logger.Named("import")),
	)
	return nil
}

func (a *app) close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.db != nil {
		return db.Close(a.db)
	}
	return nil
}

// scope resolves --firm (ID or slug) and --instancia into a scope
func (a *app) scope(ctx context.Context, firmRef, instance string) (services.Scope, error) {
	firm, err := services.FindFirm(ctx, a.db, firmRef)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return services.Scope{}, fmt.Errorf("firm %q not found", firmRef)
		}
		return services.Scope{}, err
	}
	return services.NewScope(firm.ID, instance)
}

// scopeFlags registers the flags shared by the firm-scoped subcommands
func scopeFlags(cmd *cobra.Command, firm, instance *string) {
	cmd.Flags().StringVar(firm, "firm", "", "Firm ID or slug (required)")
	cmd.Flags().StringVar(instance, "instancia", models.InstanceSecond, "Instance: primeira or segunda")
	_ = cmd.MarkFlagRequired("firm")
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the demo firm with courts and decisions in both instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			firm, err := services.SeedDemoData(cmd.Context(), a.db, a.importer, a.logger.Named("seed"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "demo firm %s (slug %s)\n", firm.ID, firm.Slug)
			return nil
		},
	}
}

func newFirmCmd(a *app) *cobra.Command {
	var name, company string
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a firm",
		RunE: func(cmd *cobra.Command, args []string) error {
			if company == "" {
				company = a.cfg.DefaultCompany
			}
			firm, err := services.CreateFirm(cmd.Context(), a.db, name, company)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "firm %s (slug %s)\n", firm.ID, firm.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Firm name (required)")
	create.Flags().StringVar(&company, "company", "", "Primary company used when a decision names none (default $DEFAULT_COMPANY)")
	_ = create.MarkFlagRequired("name")

	firm := &cobra.Command{Use: "firm", Short: "Manage firms"}
	firm.AddCommand(create)
	return firm
}

func newCourtCmd(a *app) *cobra.Command {
	var firmRef, instance, name, region string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a court to a firm and instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := a.scope(cmd.Context(), firmRef, instance)
			if err != nil {
				return err
			}
			court, err := services.CreateCourt(cmd.Context(), a.db, scope, name, region)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "court %s %q region %s\n", court.ID, court.Name, court.RegionCode)
			return nil
		},
	}
	scopeFlags(create, &firmRef, &instance)
	create.Flags().StringVar(&name, "name", "", "Court name, e.g. \"TRT 2\" (required)")
	create.Flags().StringVar(&region, "region", "", "Two-digit region code of the CNJ number")
	_ = create.MarkFlagRequired("name")

	var courtID string
	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete a court with its divisions, adjudicators and decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := a.scope(cmd.Context(), firmRef, instance)
			if err != nil {
				return err
			}
			removed, err := services.DeleteCourt(cmd.Context(), a.db, scope, courtID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d divisions, %d adjudicators, %d decisions\n",
				removed.Divisions, removed.Adjudicators, removed.Decisions)
			return nil
		},
	}
	scopeFlags(remove, &firmRef, &instance)
	remove.Flags().StringVar(&courtID, "court", "", "Court ID (required)")
	_ = remove.MarkFlagRequired("court")

	court := &cobra.Command{Use: "court", Short: "Manage courts"}
	court.AddCommand(create, remove)
	return court
}
