package catalog

import (
	"strings"
	"time"

	domainCatalog "github.com/flexprice/junction/internal/domain/catalog"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/types"
	"github.com/flexprice/junction/internal/validator"
	"github.com/shopspring/decimal"
)

// Definition is the on-disk catalog layout. Amounts are decimal strings.
type Definition struct {
	Versions []VersionDefinition `mapstructure:"versions" validate:"required,min=1,dive"`
}

type VersionDefinition struct {
	EffectiveDate           string                    `mapstructure:"effective_date" validate:"required"`
	DefaultBillingAlignment types.BillingAlignment    `mapstructure:"default_billing_alignment" validate:"required"`
	BillingAlignmentRules   []AlignmentRuleDefinition `mapstructure:"billing_alignment_rules" validate:"dive"`
	Products                []ProductDefinition       `mapstructure:"products" validate:"required,min=1,dive"`
	Plans                   []PlanDefinition          `mapstructure:"plans" validate:"required,min=1,dive"`
}

// AlignmentRuleDefinition matches on every non-empty field
type AlignmentRuleDefinition struct {
	Product         string                     `mapstructure:"product"`
	ProductCategory types.SubscriptionCategory `mapstructure:"product_category"`
	BillingPeriod   types.BillingPeriod        `mapstructure:"billing_period"`
	PhaseType       types.PhaseType            `mapstructure:"phase_type"`
	PriceList       string                     `mapstructure:"price_list"`
	Alignment       types.BillingAlignment     `mapstructure:"alignment" validate:"required"`
}

type ProductDefinition struct {
	Name     string                     `mapstructure:"name" validate:"required"`
	Category types.SubscriptionCategory `mapstructure:"category" validate:"required"`
}

type PlanDefinition struct {
	Name        string            `mapstructure:"name" validate:"required"`
	Product     string            `mapstructure:"product" validate:"required"`
	BillingMode types.BillingMode `mapstructure:"billing_mode"`
	Phases      []PhaseDefinition `mapstructure:"phases" validate:"required,min=1,dive"`
}

type PhaseDefinition struct {
	Name      string               `mapstructure:"name" validate:"required"`
	Type      types.PhaseType      `mapstructure:"type" validate:"required"`
	Duration  types.Duration       `mapstructure:"duration"`
	Fixed     *FixedDefinition     `mapstructure:"fixed"`
	Recurring *RecurringDefinition `mapstructure:"recurring"`
}

type FixedDefinition struct {
	Prices map[string]string `mapstructure:"prices" validate:"required"`
}

type RecurringDefinition struct {
	BillingPeriod types.BillingPeriod `mapstructure:"billing_period" validate:"required"`
	Prices        map[string]string   `mapstructure:"prices" validate:"required"`
}

// Build validates the definition and converts it into catalog versions
func (d *Definition) Build() ([]*Version, error) {
	if err := validator.ValidateRequest(d); err != nil {
		return nil, err
	}

	versions := make([]*Version, 0, len(d.Versions))
	for _, vd := range d.Versions {
		v, err := vd.build()
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

func (vd VersionDefinition) build() (*Version, error) {
	effective, err := time.Parse(time.RFC3339, vd.EffectiveDate)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invalid catalog effective date %q", vd.EffectiveDate).
			Mark(ierr.ErrValidation)
	}
	if err := vd.DefaultBillingAlignment.Validate(); err != nil {
		return nil, err
	}

	products := make(map[string]domainCatalog.Product, len(vd.Products))
	for _, pd := range vd.Products {
		if err := pd.Category.Validate(); err != nil {
			return nil, err
		}
		products[pd.Name] = domainCatalog.Product{Name: pd.Name, Category: pd.Category}
	}

	plans := make([]*domainCatalog.Plan, 0, len(vd.Plans))
	for _, pd := range vd.Plans {
		product, ok := products[pd.Product]
		if !ok {
			return nil, ierr.NewError("plan references an unknown product").
				WithHintf("Plan %s references unknown product %s", pd.Name, pd.Product).
				WithReportableDetails(map[string]any{
					"plan":    pd.Name,
					"product": pd.Product,
				}).
				Mark(ierr.ErrValidation)
		}
		plan, err := pd.build(product)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	rules := make([]AlignmentRule, 0, len(vd.BillingAlignmentRules))
	for _, rd := range vd.BillingAlignmentRules {
		if err := rd.Alignment.Validate(); err != nil {
			return nil, err
		}
		rules = append(rules, AlignmentRule{
			Product:       rd.Product,
			Category:      rd.ProductCategory,
			BillingPeriod: rd.BillingPeriod,
			PhaseType:     rd.PhaseType,
			PriceList:     rd.PriceList,
			Alignment:     rd.Alignment,
		})
	}

	return NewVersion(effective, vd.DefaultBillingAlignment, rules, plans...)
}

func (pd PlanDefinition) build(product domainCatalog.Product) (*domainCatalog.Plan, error) {
	plan := &domainCatalog.Plan{
		Name:        pd.Name,
		Product:     product,
		BillingMode: pd.BillingMode,
	}
	if plan.BillingMode != "" {
		if err := plan.BillingMode.Validate(); err != nil {
			return nil, err
		}
	}

	for _, phd := range pd.Phases {
		if err := phd.Type.Validate(); err != nil {
			return nil, err
		}
		if err := phd.Duration.Validate(); err != nil {
			return nil, err
		}

		phase := &domainCatalog.PlanPhase{
			Name:      phd.Name,
			PhaseType: phd.Type,
			Duration:  phd.Duration,
		}
		if phd.Fixed != nil {
			price, err := parsePrice(phd.Name, phd.Fixed.Prices)
			if err != nil {
				return nil, err
			}
			phase.Fixed = &domainCatalog.Fixed{Price: price}
		}
		if phd.Recurring != nil {
			if err := phd.Recurring.BillingPeriod.Validate(); err != nil {
				return nil, err
			}
			price, err := parsePrice(phd.Name, phd.Recurring.Prices)
			if err != nil {
				return nil, err
			}
			phase.Recurring = &domainCatalog.Recurring{
				BillingPeriod: phd.Recurring.BillingPeriod,
				Price:         price,
			}
		}
		plan.Phases = append(plan.Phases, phase)
	}

	return plan, nil
}

// parsePrice reads decimal amounts keyed by currency. Keys are upper-cased
// because the yaml loader folds them to lower case.
func parsePrice(phase string, raw map[string]string) (domainCatalog.Price, error) {
	price := make(domainCatalog.Price, len(raw))
	for currency, amount := range raw {
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Invalid amount %q for %s in phase %s", amount, currency, phase).
				Mark(ierr.ErrValidation)
		}
		price[strings.ToUpper(currency)] = d
	}
	return price, nil
}
