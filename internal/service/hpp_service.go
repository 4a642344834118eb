package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go-hpp-engine/internal/costing"
	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/ws"
	"go-hpp-engine/pkg/apperror"
	"go-hpp-engine/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	listConcurrency = 8

	OriginSnapshot = "snapshot"
	OriginImport   = "import"
)

// ProductCostReport is a resolved HPP plus what it means at the current price.
type ProductCostReport struct {
	costing.CostBreakdown
	SellingPrice *float64            `json:"selling_price"`
	Evaluation   *costing.Evaluation `json:"evaluation,omitempty"`
	Lines        []costing.LineCost  `json:"lines,omitempty"`
}

// PricingReport holds the tier recommendations for one product.
type PricingReport struct {
	ProductID       string                   `json:"product_id"`
	ProductName     string                   `json:"product_name"`
	UnitCost        *float64                 `json:"unit_cost"`
	Source          costing.Source           `json:"source"`
	RoundingStep    float64                  `json:"rounding_step"`
	Recommendations []costing.Recommendation `json:"recommendations"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

// PromotionItemRequest names a product in a promotion. SellingPrice overrides
// the product's stored price.
type PromotionItemRequest struct {
	ProductID    uuid.UUID `json:"product_id" validate:"uuid_required"`
	SellingPrice *float64  `json:"selling_price" validate:"omitempty,gte=0"`
}

type PromotionRequest struct {
	Mechanic   costing.Mechanic       `json:"mechanic" validate:"required"`
	Items      []PromotionItemRequest `json:"items" validate:"required,min=1,dive"`
	PromoPrice *float64               `json:"promo_price"`
	AddOnPrice *float64               `json:"addon_price"`
}

// AggregateRequest imports precomputed figures from an external system.
type AggregateRequest struct {
	BahanPerUnit    *float64 `json:"bahan_per_unit" validate:"omitempty,gte=0"`
	LaborPerUnit    *float64 `json:"labor_per_unit" validate:"omitempty,gte=0"`
	OverheadPerUnit *float64 `json:"overhead_per_unit" validate:"omitempty,gte=0"`
	Total           *float64 `json:"total" validate:"omitempty,gte=0"`
}

// HppService resolves costs and prices against an owner's master data.
type HppService interface {
	ProductCost(ownerID, productID uuid.UUID) (*ProductCostReport, error)
	ListProductCosts(ctx context.Context, ownerID uuid.UUID) ([]ProductCostReport, error)
	Recommend(ownerID, productID uuid.UUID, tiers []costing.Tier) (*PricingReport, error)
	EvaluatePrice(ownerID, productID uuid.UUID, sellingPrice *float64) (*costing.Evaluation, error)
	EvaluatePromotion(ownerID uuid.UUID, req PromotionRequest) (*costing.PromotionResult, error)

	SnapshotAggregate(a Actor, productID uuid.UUID) (*model.CostAggregate, error)
	ImportAggregate(a Actor, productID uuid.UUID, req AggregateRequest) (*model.CostAggregate, error)
	ClearAggregate(a Actor, productID uuid.UUID) error
	SetBahanSummary(a Actor, productID uuid.UUID, bahanPerUnit float64) error
	ClearBahanSummary(a Actor, productID uuid.UUID) error
	SetManualOverhead(a Actor, productID uuid.UUID, perUnit *float64) error

	RefreshSnapshots(ctx context.Context) (int, error)
}

type hppService struct {
	snapshots  repository.SnapshotRepository
	products   repository.ProductRepository
	summaries  repository.CostSummaryRepository
	resolver   *costing.Resolver
	recompute  *costing.Resolver
	promotions *costing.PromotionEvaluator
	metrics    *metrics.CostingMetrics
	events     EventPublisher
	log        *zap.Logger
	now        func() time.Time
}

func NewHppService(
	snapshots repository.SnapshotRepository,
	products repository.ProductRepository,
	summaries repository.CostSummaryRepository,
	opts costing.Options,
	m *metrics.CostingMetrics,
	events EventPublisher,
	log *zap.Logger,
) HppService {
	if log == nil {
		log = zap.NewNop()
	}
	return &hppService{
		snapshots:  snapshots,
		products:   products,
		summaries:  summaries,
		resolver:   costing.NewResolver(opts),
		recompute:  costing.NewResolver(opts, costing.RecipeStrategy),
		promotions: costing.NewPromotionEvaluator(opts.Risk, opts.Clamp),
		metrics:    m,
		events:     publisherOrNop(events),
		log:        log,
		now:        time.Now,
	}
}

func (s *hppService) load(ownerID uuid.UUID) (costing.Snapshot, error) {
	snap, err := s.snapshots.Load(ownerID)
	if err != nil {
		return costing.Snapshot{}, storeError("cost data", err)
	}
	return snap, nil
}

// resolve runs the chain for one product and records what it did.
func (s *hppService) resolve(r *costing.Resolver, productID string, snap costing.Snapshot) (costing.CostBreakdown, error) {
	b, err := r.Resolve(productID, snap)
	if err != nil {
		if errors.Is(err, costing.ErrMissingReference) {
			return b, apperror.Wrap(apperror.CodeNotFound, err, "product not found")
		}
		return b, apperror.Wrap(apperror.CodeInternal, err, "failed to resolve cost")
	}

	s.metrics.IncResolution(string(b.Source))
	if b.Recipe != nil {
		s.metrics.AddUnitMismatches(len(b.Recipe.UnitMismatches))
	}
	if len(b.Warnings) > 0 {
		s.log.Debug("cost resolved with warnings",
			zap.String("product_id", b.ProductID),
			zap.String("source", string(b.Source)),
			zap.Strings("warnings", b.Warnings),
		)
	}
	return b, nil
}

func (s *hppService) report(b costing.CostBreakdown, snap costing.Snapshot) ProductCostReport {
	rep := ProductCostReport{CostBreakdown: b}
	if p, ok := snap.Products[b.ProductID]; ok {
		rep.SellingPrice = p.SellingPrice
	}
	if b.Recipe != nil {
		rep.Lines = b.Recipe.Lines
	}
	if rep.SellingPrice != nil && b.Total != nil {
		ev := costing.Evaluate(*b.Total, *rep.SellingPrice)
		rep.Evaluation = &ev
	}
	return rep
}

func (s *hppService) ProductCost(ownerID, productID uuid.UUID) (*ProductCostReport, error) {
	snap, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(s.resolver, productID.String(), snap)
	if err != nil {
		return nil, err
	}
	rep := s.report(b, snap)
	return &rep, nil
}

// ListProductCosts resolves every product of the owner against one snapshot.
func (s *hppService) ListProductCosts(ctx context.Context, ownerID uuid.UUID) ([]ProductCostReport, error) {
	snap, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(snap.Products))
	for id := range snap.Products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		pi, pj := snap.Products[ids[i]], snap.Products[ids[j]]
		if pi.Name != pj.Name {
			return pi.Name < pj.Name
		}
		return ids[i] < ids[j]
	})

	out := make([]ProductCostReport, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := s.resolve(s.resolver, id, snap)
			if err != nil {
				return err
			}
			out[i] = s.report(b, snap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *hppService) Recommend(ownerID, productID uuid.UUID, tiers []costing.Tier) (*PricingReport, error) {
	opts := s.resolver.Options()
	if len(tiers) == 0 {
		tiers = opts.Tiers
	}
	if err := costing.ValidateTiers(tiers); err != nil {
		return nil, apperror.Wrap(apperror.CodeValidation, err, err.Error())
	}

	snap, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(s.resolver, productID.String(), snap)
	if err != nil {
		return nil, err
	}

	rep := &PricingReport{
		ProductID:    b.ProductID,
		ProductName:  b.ProductName,
		UnitCost:     b.Total,
		Source:       b.Source,
		RoundingStep: opts.PriceRoundingStep,
		Warnings:     b.Warnings,
	}
	if b.Total == nil {
		rep.Recommendations = []costing.Recommendation{}
		rep.Warnings = append(rep.Warnings, "unit cost unavailable; no price can be recommended")
		return rep, nil
	}
	rep.Recommendations = costing.RecommendRounded(*b.Total, tiers, opts.PriceRoundingStep)
	return rep, nil
}

// EvaluatePrice uses the product's stored selling price when none is given.
func (s *hppService) EvaluatePrice(ownerID, productID uuid.UUID, sellingPrice *float64) (*costing.Evaluation, error) {
	if sellingPrice != nil && *sellingPrice < 0 {
		return nil, apperror.New(apperror.CodeValidation, "selling price must not be negative")
	}
	snap, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(s.resolver, productID.String(), snap)
	if err != nil {
		return nil, err
	}

	price := sellingPrice
	if price == nil {
		price = snap.Products[b.ProductID].SellingPrice
	}
	if price == nil {
		return nil, apperror.New(apperror.CodeValidation, "selling price is not set for this product")
	}
	if b.Total == nil {
		return nil, apperror.New(apperror.CodeConflict, "unit cost is unavailable for this product")
	}
	ev := costing.Evaluate(*b.Total, *price)
	return &ev, nil
}

func (s *hppService) EvaluatePromotion(ownerID uuid.UUID, req PromotionRequest) (*costing.PromotionResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	snap, err := s.load(ownerID)
	if err != nil {
		return nil, err
	}

	items := make([]costing.PromoItem, 0, len(req.Items))
	for _, it := range req.Items {
		b, err := s.resolve(s.resolver, it.ProductID.String(), snap)
		if err != nil {
			return nil, err
		}
		price := it.SellingPrice
		if price == nil {
			price = snap.Products[b.ProductID].SellingPrice
		}
		items = append(items, costing.PromoItem{
			ProductID:    b.ProductID,
			Name:         b.ProductName,
			UnitCost:     b.Total,
			SellingPrice: price,
		})
	}

	res, err := s.promotions.Evaluate(costing.Scenario{
		Mechanic:   req.Mechanic,
		Items:      items,
		PromoPrice: req.PromoPrice,
		AddOnPrice: req.AddOnPrice,
	})
	if err != nil {
		if errors.Is(err, costing.ErrInvalidScenario) {
			return nil, apperror.Wrap(apperror.CodeValidation, err, err.Error())
		}
		return nil, apperror.Wrap(apperror.CodeInternal, err, "failed to evaluate promotion")
	}
	s.metrics.IncPromotion(string(res.Mechanic), string(res.Risk))
	return &res, nil
}

// SnapshotAggregate recomputes from the recipe and stores the result as the
// product's precomputed aggregate. Depreciation is folded into overhead.
func (s *hppService) SnapshotAggregate(a Actor, productID uuid.UUID) (*model.CostAggregate, error) {
	snap, err := s.load(a.OwnerID)
	if err != nil {
		return nil, err
	}
	b, err := s.resolve(s.recompute, productID.String(), snap)
	if err != nil {
		return nil, err
	}
	if b.Total == nil {
		return nil, apperror.New(apperror.CodeConflict, "unit cost is unavailable; nothing to snapshot")
	}

	overhead := b.OverheadPerUnit
	if b.DepreciationPerUnit != nil {
		sum := *b.DepreciationPerUnit
		if overhead != nil {
			sum += *overhead
		}
		overhead = &sum
	}

	agg := &model.CostAggregate{
		OwnedModel:      ownedBy(a),
		ProductID:       productID,
		BahanPerUnit:    b.IngredientsPerUnit,
		LaborPerUnit:    b.LaborPerUnit,
		OverheadPerUnit: overhead,
		Total:           b.Total,
		Origin:          OriginSnapshot,
		ComputedAt:      s.now(),
	}
	if err := s.summaries.UpsertAggregate(agg); err != nil {
		return nil, storeError("cost aggregate", err)
	}
	s.log.Info("cost aggregate stored",
		zap.String("owner_id", a.OwnerID.String()),
		zap.String("product_id", productID.String()),
		zap.Float64("total", *b.Total),
	)
	s.publish(a.OwnerID, "snapshot", "cost_aggregate", productID, agg)
	return agg, nil
}

func (s *hppService) ImportAggregate(a Actor, productID uuid.UUID, req AggregateRequest) (*model.CostAggregate, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.BahanPerUnit == nil && req.LaborPerUnit == nil && req.OverheadPerUnit == nil && req.Total == nil {
		return nil, apperror.New(apperror.CodeValidation, "at least one cost figure is required")
	}
	if _, err := s.products.FindByID(a.OwnerID, productID); err != nil {
		return nil, storeError("product", err)
	}

	agg := &model.CostAggregate{
		OwnedModel:      ownedBy(a),
		ProductID:       productID,
		BahanPerUnit:    req.BahanPerUnit,
		LaborPerUnit:    req.LaborPerUnit,
		OverheadPerUnit: req.OverheadPerUnit,
		Total:           req.Total,
		Origin:          OriginImport,
		ComputedAt:      s.now(),
	}
	if err := s.summaries.UpsertAggregate(agg); err != nil {
		return nil, storeError("cost aggregate", err)
	}
	s.publish(a.OwnerID, "updated", "cost_aggregate", productID, agg)
	return agg, nil
}

func (s *hppService) ClearAggregate(a Actor, productID uuid.UUID) error {
	if err := s.summaries.DeleteAggregate(a.OwnerID, productID); err != nil {
		return storeError("cost aggregate", err)
	}
	s.publish(a.OwnerID, "cleared", "cost_aggregate", productID, nil)
	return nil
}

func (s *hppService) SetBahanSummary(a Actor, productID uuid.UUID, bahanPerUnit float64) error {
	if bahanPerUnit < 0 {
		return apperror.New(apperror.CodeValidation, "bahan per unit must not be negative")
	}
	if _, err := s.products.FindByID(a.OwnerID, productID); err != nil {
		return storeError("product", err)
	}
	summary := &model.IngredientCostSummary{
		OwnedModel:   ownedBy(a),
		ProductID:    productID,
		BahanPerUnit: bahanPerUnit,
	}
	if err := s.summaries.UpsertBahan(summary); err != nil {
		return storeError("ingredient cost summary", err)
	}
	s.publish(a.OwnerID, "updated", "ingredient_cost_summary", productID, summary)
	return nil
}

func (s *hppService) ClearBahanSummary(a Actor, productID uuid.UUID) error {
	if err := s.summaries.DeleteBahan(a.OwnerID, productID); err != nil {
		return storeError("ingredient cost summary", err)
	}
	s.publish(a.OwnerID, "cleared", "ingredient_cost_summary", productID, nil)
	return nil
}

// SetManualOverhead sets the per-unit overhead override; nil clears it.
func (s *hppService) SetManualOverhead(a Actor, productID uuid.UUID, perUnit *float64) error {
	if perUnit != nil && *perUnit < 0 {
		return apperror.New(apperror.CodeValidation, "manual overhead must not be negative")
	}
	if err := s.products.UpdateManualOverhead(a.OwnerID, productID, perUnit, a.auditName()); err != nil {
		return storeError("product", err)
	}
	s.publish(a.OwnerID, "updated", "manual_overhead", productID, map[string]interface{}{"manual_overhead_per_unit": perUnit})
	return nil
}

// RefreshSnapshots recomputes every aggregate that was produced by
// SnapshotAggregate, across all owners. Imported aggregates are left alone.
func (s *hppService) RefreshSnapshots(ctx context.Context) (int, error) {
	aggs, err := s.summaries.FindAggregatesByOrigin(OriginSnapshot)
	if err != nil {
		return 0, storeError("cost aggregate", err)
	}

	var (
		refreshed int
		errs      []error
	)
	for _, agg := range aggs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		actor := Actor{OwnerID: agg.OwnerID, Email: "scheduler"}
		if _, err := s.SnapshotAggregate(actor, agg.ProductID); err != nil {
			errs = append(errs, fmt.Errorf("product %s: %w", agg.ProductID, err))
			continue
		}
		refreshed++
	}
	return refreshed, multierr.Combine(errs...)
}

func (s *hppService) publish(ownerID uuid.UUID, action, entity string, id uuid.UUID, data interface{}) {
	s.events.Publish(ownerID, ws.Event{
		Type:     ws.TypeCostUpdate,
		Action:   action,
		Entity:   entity,
		EntityID: id.String(),
		Data:     data,
	})
}

func ownedBy(a Actor) model.OwnedModel {
	return model.OwnedModel{
		OwnerID: a.OwnerID,
		BaseModel: model.BaseModel{
			CreatedBy: a.auditName(),
			UpdatedBy: a.auditName(),
		},
	}
}
