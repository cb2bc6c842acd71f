package memory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
	"gopkg.in/yaml.v3"
)

// MasterDataRepository serves provider and chart-of-accounts lookups
// from a seed set, optionally replaced by a YAML file. It stands in for
// the external master-data service the core consumes.
type MasterDataRepository struct {
	providers       map[string]domain.Provider
	expenseAccounts []string
	incomeAccounts  []string
}

type masterDataFile struct {
	Providers []struct {
		Code       string `yaml:"code"`
		CIF        string `yaml:"cif"`
		Name       string `yaml:"name"`
		PostalCode string `yaml:"postalCode"`
		Account    string `yaml:"account"`
	} `yaml:"providers"`
	ExpenseAccounts []string `yaml:"expenseAccounts"`
	IncomeAccounts  []string `yaml:"incomeAccounts"`
}

func NewMasterDataRepository() *MasterDataRepository {
	return &MasterDataRepository{
		providers: map[string]domain.Provider{
			"PROV001": {Code: "PROV001", CIF: "B81234567", Name: "Suministros Levante SL", PostalCode: "46001", Account: "400000001"},
			"PROV002": {Code: "PROV002", CIF: "B28765432", Name: "Papeleria Central SA", PostalCode: "28004", Account: "400000002"},
			"PROV003": {Code: "PROV003", CIF: "A08111222", Name: "Servicios Informaticos Ebro SL", PostalCode: "50002", Account: "410000001"},
		},
		expenseAccounts: []string{
			"600000000", "621000000", "622000000", "623000000",
			"628000000", "629000000",
		},
		incomeAccounts: []string{
			"700000000", "705000000", "759000000", "769000000",
		},
	}
}

// NewMasterDataRepositoryFromFile loads providers and account lists from
// a YAML file, falling back to the seed set for any missing section.
func NewMasterDataRepositoryFromFile(path string) (*MasterDataRepository, error) {
	repo := NewMasterDataRepository()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read master data file %q: %w", path, err)
	}

	var parsed masterDataFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse master data file %q: %w", path, err)
	}

	if len(parsed.Providers) > 0 {
		repo.providers = make(map[string]domain.Provider, len(parsed.Providers))
		for _, p := range parsed.Providers {
			code := strings.TrimSpace(p.Code)
			if code == "" {
				continue
			}
			repo.providers[code] = domain.Provider{
				Code:       code,
				CIF:        strings.TrimSpace(p.CIF),
				Name:       strings.TrimSpace(p.Name),
				PostalCode: strings.TrimSpace(p.PostalCode),
				Account:    strings.TrimSpace(p.Account),
			}
		}
	}
	if len(parsed.ExpenseAccounts) > 0 {
		repo.expenseAccounts = parsed.ExpenseAccounts
	}
	if len(parsed.IncomeAccounts) > 0 {
		repo.incomeAccounts = parsed.IncomeAccounts
	}

	return repo, nil
}

func (r *MasterDataRepository) GetProvider(_ context.Context, code string) (domain.Provider, error) {
	provider, ok := r.providers[strings.TrimSpace(code)]
	if !ok {
		return domain.Provider{}, domain.ErrRecordNotFound
	}
	return provider, nil
}

func (r *MasterDataRepository) ListExpenseAccounts(_ context.Context) ([]string, error) {
	out := make([]string, len(r.expenseAccounts))
	copy(out, r.expenseAccounts)
	return out, nil
}

func (r *MasterDataRepository) ListIncomeAccounts(_ context.Context) ([]string, error) {
	out := make([]string, len(r.incomeAccounts))
	copy(out, r.incomeAccounts)
	return out, nil
}
