package services

import (
	"context"
	"errors"
	"fmt"

	"litigation_dashboard_go/logging"
	"litigation_dashboard_go/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DemoFirmSlug identifies the firm created by SeedDemoData
const DemoFirmSlug = "demo"

var demoCourts = []struct {
	name   string
	region string
}{
	{"TRT 1 - Rio de Janeiro", "01"},
	{"TRT 2 - Sao Paulo", "02"},
	{"TRT 15 - Campinas", "15"},
}

var demoDivisions = []string{"1a Turma", "2a Turma", "3a Turma"}

var demoAdjudicators = []string{
	"Des. Maria Souza",
	"Des. Joao Pereira",
	"Juiz Convocado Carlos Lima",
	"Des. Ana Ribeiro",
}

var demoOutcomes = []string{
	"Favoravel",
	"Desfavoravel",
	"Favoravel",
	"Parcialmente favoravel",
	"Favoravel",
	"Em analise",
	"Desfavoravel",
}

var demoCompanies = []string{"", "Beta Servicos", "Gama Transportes"}

// SeedDemoData creates a demo firm with courts in both instances and imports a
// deterministic set of decisions through the importer. It does nothing when the
// demo firm already exists.
func SeedDemoData(ctx context.Context, db *gorm.DB, importer *DecisionImporter, logger *zap.Logger) (*models.Firm, error) {
	logger = logging.OrNop(logger)

	var existing models.Firm
	err := db.WithContext(ctx).Where("slug = ?", DemoFirmSlug).First(&existing).Error
	if err == nil {
		logger.Info("demo data already present, skipping seed", zap.String("firm_id", existing.ID))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up demo firm: %w", err)
	}

	firm := &models.Firm{Name: "Escritorio Demo", Slug: DemoFirmSlug, PrimaryCompany: "Acme Logistica"}
	if err := db.WithContext(ctx).Create(firm).Error; err != nil {
		return nil, fmt.Errorf("failed to create demo firm: %w", err)
	}

	for _, instance := range []string{models.InstanceFirst, models.InstanceSecond} {
		scope := Scope{FirmID: firm.ID, Instance: instance}
		for _, c := range demoCourts {
			if _, err := CreateCourt(ctx, db, scope, c.name, c.region); err != nil {
				return nil, err
			}
		}

		result, err := importer.Import(ctx, scope, demoRows(instance), ImportOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to import demo decisions: %w", err)
		}
		logger.Info("demo decisions seeded",
			zap.String("instance", instance),
			zap.Int("created", result.Success),
			zap.Int("errors", result.Errors),
		)
	}
	return firm, nil
}

// demoRows spreads decisions over courts, divisions, adjudicators and the months of 2024
func demoRows(instance string) []RawRow {
	var rows []RawRow
	seq := 1
	for ci, court := range demoCourts {
		for di, division := range demoDivisions {
			for ai := 0; ai < 2; ai++ {
				adjudicator := demoAdjudicators[(di+ai+ci)%len(demoAdjudicators)]
				for k := 0; k < 3; k++ {
					month := (seq % 12) + 1
					date := fmt.Sprintf("%02d/%02d/2024", (seq%27)+1, month)
					if seq%11 == 0 {
						date = ""
					}
					liability := "Subsidiaria"
					if seq%4 == 0 {
						liability = "Solidaria"
					}
					upi := "Nao"
					if seq%5 == 0 {
						upi = "Sim"
					}
					rows = append(rows, RawRow{
						DecisionDate:  date,
						ProcessNumber: fmt.Sprintf("%07d-%02d.2024.5.%s.%04d", seq, seq%97, court.region, 1+di),
						Location:      court.name,
						Division:      division,
						Adjudicator:   adjudicator,
						Outcome:       demoOutcomes[seq%len(demoOutcomes)],
						Liability:     liability,
						UPI:           upi,
						Company:       demoCompanies[seq%len(demoCompanies)],
						Instance:      instance,
					})
					seq++
				}
			}
		}
	}
	return rows
}
