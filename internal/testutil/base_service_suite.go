package testutil

import (
	"context"
	"time"

	"github.com/flexprice/junction/internal/config"
	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/domain/blocking"
	"github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/domain/subscription"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	AccountRepo      *InMemoryAccountStore
	SubscriptionRepo *InMemorySubscriptionStore
	BlockingRepo     *InMemoryBlockingStore
	TagRepo          *InMemoryTagStore
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	stores   Stores
	catalog  catalog.Catalog
	ordering billingevent.OrderingService
	locker   *MutexLocker
	logger   *logger.Logger
	config   *config.Configuration
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()
	s.config.Timeline.MaxConcurrency = 4
	s.logger = logger.NewNoopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.stores = Stores{
		AccountRepo:      NewInMemoryAccountStore(),
		SubscriptionRepo: NewInMemorySubscriptionStore(),
		BlockingRepo:     NewInMemoryBlockingStore(),
		TagRepo:          NewInMemoryTagStore(),
	}
	s.catalog = NewTestCatalog()
	s.ordering = billingevent.NewOrderingService(1)
	s.locker = NewMutexLocker()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.stores.AccountRepo.Clear()
	s.stores.SubscriptionRepo.Clear()
	s.stores.BlockingRepo.Clear()
	s.stores.TagRepo.Clear()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetCatalog() catalog.Catalog {
	return s.catalog
}

// SetCatalog replaces the catalog for the current test
func (s *BaseServiceTestSuite) SetCatalog(c catalog.Catalog) {
	s.catalog = c
}

func (s *BaseServiceTestSuite) GetOrdering() billingevent.OrderingService {
	return s.ordering
}

func (s *BaseServiceTestSuite) GetLocker() *MutexLocker {
	return s.locker
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// CreateAccount stores a UTC account without bill cycle day
func (s *BaseServiceTestSuite) CreateAccount(id string) *account.Account {
	a := &account.Account{
		ID:        id,
		Name:      id,
		Currency:  "USD",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.AccountRepo.Create(s.ctx, a))
	return a
}

func (s *BaseServiceTestSuite) CreateBundle(accountID string) *subscription.Bundle {
	b := &subscription.Bundle{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BUNDLE),
		AccountID:   accountID,
		ExternalKey: types.GenerateUUID(),
		BaseModel:   types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.SubscriptionRepo.CreateBundle(s.ctx, b))
	return b
}

func (s *BaseServiceTestSuite) CreateSubscription(bundleID string, category types.SubscriptionCategory, start time.Time) *subscription.Subscription {
	sub := &subscription.Subscription{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		BundleID:  bundleID,
		Category:  category,
		State:     types.SubscriptionStateActive,
		StartDate: start,
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.Require().NoError(s.stores.SubscriptionRepo.CreateSubscription(s.ctx, sub))
	return sub
}

// CreateTransition stores a transition of sub. prev and next are plan and
// phase name pairs, empty strings meaning none.
func (s *BaseServiceTestSuite) CreateTransition(
	sub *subscription.Subscription,
	transitionType types.TransitionType,
	at time.Time,
	prevPlan, prevPhase, nextPlan, nextPhase string,
) *subscription.Transition {
	t := &subscription.Transition{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSITION),
		SubscriptionID:        sub.ID,
		Type:                  transitionType,
		EffectiveDate:         at,
		SubscriptionStartDate: sub.StartDate,
		PrevPlan:              prevPlan,
		PrevPhase:             prevPhase,
		NextPlan:              nextPlan,
		NextPhase:             nextPhase,
		BaseModel:             types.GetDefaultBaseModel(s.ctx),
	}
	if prevPlan != "" {
		t.PrevPriceList = PriceListDefault
	}
	if nextPlan != "" {
		t.NextPriceList = PriceListDefault
	}
	s.Require().NoError(s.stores.SubscriptionRepo.CreateTransition(s.ctx, t))
	return t
}

// CreateBlockingState stores a blocking state change of the billing service
func (s *BaseServiceTestSuite) CreateBlockingState(blockableType types.ObjectType, blockableID string, blocked bool, at time.Time) *blocking.BlockingState {
	state := &blocking.BlockingState{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BLOCKING_STATE),
		BlockableID:       blockableID,
		BlockableType:     blockableType,
		Service:           "overdue-service",
		StateName:         "OD1",
		IsBlockingBilling: blocked,
		EffectiveDate:     at,
		BaseModel:         types.GetDefaultBaseModel(s.ctx),
	}
	if !blocked {
		state.StateName = "CLEAR"
	}
	s.Require().NoError(s.stores.BlockingRepo.Create(s.ctx, state))
	return state
}
