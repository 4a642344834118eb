package service

import (
	"errors"

	"go-hpp-engine/internal/model"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/ws"
	"go-hpp-engine/pkg/apperror"

	"github.com/google/uuid"
)

// RecipeLineUpdate is the mutable part of a recipe line.
type RecipeLineUpdate struct {
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit"`
}

// ProductService manages products and their recipes.
type ProductService interface {
	CreateProduct(a Actor, req *model.Product) error
	UpdateProduct(a Actor, id uuid.UUID, req *model.Product) (*model.Product, error)
	ListProducts(ownerID uuid.UUID) ([]model.Product, error)
	GetProduct(ownerID, id uuid.UUID) (*model.Product, error)
	DeleteProduct(a Actor, id uuid.UUID) error

	AddRecipeLine(a Actor, productID uuid.UUID, req *model.RecipeLine) error
	UpdateRecipeLine(a Actor, lineID uuid.UUID, req RecipeLineUpdate) (*model.RecipeLine, error)
	ListRecipeLines(ownerID, productID uuid.UUID) ([]model.RecipeLine, error)
	DeleteRecipeLine(a Actor, lineID uuid.UUID) error
}

type productService struct {
	productRepo    repository.ProductRepository
	ingredientRepo repository.OwnedRepository[model.Ingredient]
	recipeRepo     repository.RecipeRepository
	events         EventPublisher
}

func NewProductService(
	pRepo repository.ProductRepository,
	iRepo repository.OwnedRepository[model.Ingredient],
	rRepo repository.RecipeRepository,
	events EventPublisher,
) ProductService {
	return &productService{
		productRepo:    pRepo,
		ingredientRepo: iRepo,
		recipeRepo:     rRepo,
		events:         publisherOrNop(events),
	}
}

func (s *productService) CreateProduct(a Actor, req *model.Product) error {
	// 1. Validasi Struct Dasar
	if err := validate(req); err != nil {
		return err
	}

	// 2. Set owner and audit fields. Recipe lines are added separately.
	req.ID = uuid.Nil
	req.OwnerID = a.OwnerID
	req.CreatedBy = a.auditName()
	req.UpdatedBy = a.auditName()
	req.RecipeLines = nil

	// 3. Simpan ke Database
	if err := s.productRepo.Create(req); err != nil {
		return storeError("product", err)
	}

	s.publish(a.OwnerID, "created", "product", req.ID, req)
	return nil
}

func (s *productService) UpdateProduct(a Actor, id uuid.UUID, req *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(a.OwnerID, id)
	if err != nil {
		return nil, storeError("product", err)
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.PortionsPerBatch = req.PortionsPerBatch
	existing.SellingPrice = req.SellingPrice
	existing.MonthlyTargetVolume = req.MonthlyTargetVolume
	existing.ManualOverheadPerUnit = req.ManualOverheadPerUnit
	existing.UpdatedBy = a.auditName()

	if err := s.productRepo.Update(existing); err != nil {
		return nil, storeError("product", err)
	}

	s.publish(a.OwnerID, "updated", "product", id, existing)
	return existing, nil
}

func (s *productService) ListProducts(ownerID uuid.UUID) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(ownerID)
	if err != nil {
		return nil, storeError("product", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ownerID, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, storeError("product", err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(a Actor, id uuid.UUID) error {
	if err := s.productRepo.Delete(a.OwnerID, id, a.auditName()); err != nil {
		return storeError("product", err)
	}
	s.publish(a.OwnerID, "deleted", "product", id, nil)
	return nil
}

func (s *productService) AddRecipeLine(a Actor, productID uuid.UUID, req *model.RecipeLine) error {
	req.ProductID = productID
	if err := validate(req); err != nil {
		return err
	}

	// Both ends must belong to the same owner
	if _, err := s.productRepo.FindByID(a.OwnerID, productID); err != nil {
		return storeError("product", err)
	}
	ingredient, err := s.ingredientRepo.FindByID(a.OwnerID, req.IngredientID)
	if err != nil {
		return storeError("ingredient", err)
	}

	req.ID = uuid.Nil
	req.OwnerID = a.OwnerID
	req.CreatedBy = a.auditName()
	req.UpdatedBy = a.auditName()
	req.Ingredient = nil
	if req.Unit == "" {
		req.Unit = ingredient.PriceUnit
	}

	if err := s.recipeRepo.AddLine(req); err != nil {
		if errors.Is(err, repository.ErrDuplicateIngredient) {
			return apperror.Wrap(apperror.CodeConflict, err, "Ingredient '"+ingredient.Name+"' is already in this recipe")
		}
		return storeError("recipe line", err)
	}
	req.Ingredient = ingredient

	s.publish(a.OwnerID, "created", "recipe_line", req.ID, req)
	return nil
}

func (s *productService) UpdateRecipeLine(a Actor, lineID uuid.UUID, req RecipeLineUpdate) (*model.RecipeLine, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	line, err := s.recipeRepo.FindLine(a.OwnerID, lineID)
	if err != nil {
		return nil, storeError("recipe line", err)
	}
	if err := s.recipeRepo.UpdateLine(a.OwnerID, lineID, req.Quantity, req.Unit, a.auditName()); err != nil {
		return nil, storeError("recipe line", err)
	}
	line.Quantity = req.Quantity
	line.Unit = req.Unit
	line.UpdatedBy = a.auditName()

	s.publish(a.OwnerID, "updated", "recipe_line", lineID, line)
	return line, nil
}

func (s *productService) ListRecipeLines(ownerID, productID uuid.UUID) ([]model.RecipeLine, error) {
	if _, err := s.productRepo.FindByID(ownerID, productID); err != nil {
		return nil, storeError("product", err)
	}
	lines, err := s.recipeRepo.FindByProduct(ownerID, productID)
	if err != nil {
		return nil, storeError("recipe line", err)
	}
	return lines, nil
}

func (s *productService) DeleteRecipeLine(a Actor, lineID uuid.UUID) error {
	if err := s.recipeRepo.DeleteLine(a.OwnerID, lineID); err != nil {
		return storeError("recipe line", err)
	}
	s.publish(a.OwnerID, "deleted", "recipe_line", lineID, nil)
	return nil
}

func (s *productService) publish(ownerID uuid.UUID, action, entity string, id uuid.UUID, data interface{}) {
	s.events.Publish(ownerID, ws.Event{
		Type:     ws.TypeCostUpdate,
		Action:   action,
		Entity:   entity,
		EntityID: id.String(),
		Data:     data,
	})
}
