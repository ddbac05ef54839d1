package catalog

import (
	"context"
	"io"
	"slices"
	"time"

	domainCatalog "github.com/flexprice/junction/internal/domain/catalog"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/types"
	"github.com/spf13/viper"
)

// AlignmentRule picks a billing alignment for the phases it matches.
// Empty fields match anything.
type AlignmentRule struct {
	Product       string
	Category      types.SubscriptionCategory
	BillingPeriod types.BillingPeriod
	PhaseType     types.PhaseType
	PriceList     string
	Alignment     types.BillingAlignment
}

func (r AlignmentRule) Matches(spec domainCatalog.PlanPhaseSpecifier) bool {
	return (r.Product == "" || r.Product == spec.ProductName) &&
		(r.Category == "" || r.Category == spec.Category) &&
		(r.BillingPeriod == "" || r.BillingPeriod == spec.BillingPeriod) &&
		(r.PhaseType == "" || r.PhaseType == spec.PhaseType) &&
		(r.PriceList == "" || r.PriceList == spec.PriceListName)
}

// Version is one catalog revision, in effect from EffectiveDate until the next one
type Version struct {
	EffectiveDate    time.Time
	DefaultAlignment types.BillingAlignment
	Rules            []AlignmentRule

	plans  map[string]*domainCatalog.Plan
	phases map[string]*domainCatalog.PlanPhase
}

// NewVersion indexes plans and their phases. Plan and phase names must be
// unique within a version.
func NewVersion(effective time.Time, defaultAlignment types.BillingAlignment, rules []AlignmentRule, plans ...*domainCatalog.Plan) (*Version, error) {
	v := &Version{
		EffectiveDate:    effective,
		DefaultAlignment: defaultAlignment,
		Rules:            rules,
		plans:            make(map[string]*domainCatalog.Plan, len(plans)),
		phases:           make(map[string]*domainCatalog.PlanPhase),
	}

	for _, plan := range plans {
		if _, ok := v.plans[plan.Name]; ok {
			return nil, ierr.NewError("duplicate plan name").
				WithHintf("Plan %s is defined twice in catalog version %s", plan.Name, effective.Format(time.RFC3339)).
				Mark(ierr.ErrValidation)
		}
		v.plans[plan.Name] = plan
		for _, phase := range plan.Phases {
			if _, ok := v.phases[phase.Name]; ok {
				return nil, ierr.NewError("duplicate phase name").
					WithHintf("Phase %s is defined twice in catalog version %s", phase.Name, effective.Format(time.RFC3339)).
					Mark(ierr.ErrValidation)
			}
			v.phases[phase.Name] = phase
		}
	}

	return v, nil
}

// StaticCatalog serves an in-memory, versioned catalog. Lookups use the
// version in effect at the subscription start when it still defines the
// name, so existing subscriptions keep their original terms, and the
// version in effect at asOf otherwise.
type StaticCatalog struct {
	versions []*Version
}

var _ domainCatalog.Catalog = (*StaticCatalog)(nil)

func NewStaticCatalog(versions ...*Version) (*StaticCatalog, error) {
	if len(versions) == 0 {
		return nil, ierr.NewError("catalog has no versions").
			WithHint("At least one catalog version is required").
			Mark(ierr.ErrValidation)
	}
	sorted := slices.Clone(versions)
	slices.SortFunc(sorted, func(a, b *Version) int {
		return a.EffectiveDate.Compare(b.EffectiveDate)
	})
	return &StaticCatalog{versions: sorted}, nil
}

// LoadFile reads a yaml catalog definition
func LoadFile(path string) (*StaticCatalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unable to read catalog file %s", path).
			Mark(ierr.ErrSystem)
	}
	return fromViper(v)
}

// Load reads a yaml catalog definition from r
func Load(r io.Reader) (*StaticCatalog, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to parse catalog definition").
			Mark(ierr.ErrValidation)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*StaticCatalog, error) {
	var def Definition
	if err := v.Unmarshal(&def); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unable to decode catalog definition").
			Mark(ierr.ErrValidation)
	}
	versions, err := def.Build()
	if err != nil {
		return nil, err
	}
	return NewStaticCatalog(versions...)
}

func (c *StaticCatalog) versionAt(t time.Time) *Version {
	var result *Version
	for _, v := range c.versions {
		if v.EffectiveDate.After(t) {
			break
		}
		result = v
	}
	return result
}

func (c *StaticCatalog) FindPlan(_ context.Context, name string, asOf, subscriptionStart time.Time) (*domainCatalog.Plan, error) {
	for _, v := range c.candidates(asOf, subscriptionStart) {
		if plan, ok := v.plans[name]; ok {
			return plan, nil
		}
	}
	return nil, lookupError("plan", name, asOf)
}

func (c *StaticCatalog) FindPhase(_ context.Context, name string, asOf, subscriptionStart time.Time) (*domainCatalog.PlanPhase, error) {
	for _, v := range c.candidates(asOf, subscriptionStart) {
		if phase, ok := v.phases[name]; ok {
			return phase, nil
		}
	}
	return nil, lookupError("phase", name, asOf)
}

// BillingAlignment returns the alignment of the first rule of the version in
// effect at asOf matching spec, or the version default
func (c *StaticCatalog) BillingAlignment(_ context.Context, spec domainCatalog.PlanPhaseSpecifier, asOf time.Time) (types.BillingAlignment, error) {
	v := c.versionAt(asOf)
	if v == nil {
		return "", lookupError("billing alignment", spec.ProductName, asOf)
	}
	for _, rule := range v.Rules {
		if rule.Matches(spec) {
			return rule.Alignment, nil
		}
	}
	return v.DefaultAlignment, nil
}

func (c *StaticCatalog) candidates(asOf, subscriptionStart time.Time) []*Version {
	var result []*Version
	if v := c.versionAt(subscriptionStart); v != nil {
		result = append(result, v)
	}
	if v := c.versionAt(asOf); v != nil && !slices.Contains(result, v) {
		result = append(result, v)
	}
	return result
}

func lookupError(kind, name string, asOf time.Time) error {
	return ierr.NewError("catalog entry not found").
		WithHintf("No %s named %s in the catalog as of %s", kind, name, asOf.Format(time.RFC3339)).
		WithReportableDetails(map[string]any{
			"kind":  kind,
			"name":  name,
			"as_of": asOf,
		}).
		Mark(ierr.ErrCatalogLookup)
}
