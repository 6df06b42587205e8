package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iluvios/menumagic-sub001/models"

	"gorm.io/gorm"
)

type SupplierInput struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`
}

type SupplierService interface {
	List(ctx context.Context, s models.Session, query string) ([]models.Supplier, error)
	Get(ctx context.Context, s models.Session, id uint) (models.Supplier, error)
	Create(ctx context.Context, s models.Session, in SupplierInput) (models.Supplier, error)
	Update(ctx context.Context, s models.Session, id uint, in SupplierInput) (models.Supplier, error)
	Delete(ctx context.Context, s models.Session, id uint) error
}

type supplierService struct{ db *gorm.DB }

func NewSupplierService(db *gorm.DB) SupplierService { return &supplierService{db: db} }

func (in SupplierInput) apply(sup *models.Supplier) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	sup.Name = name
	sup.ContactName = strings.TrimSpace(in.ContactName)
	sup.Phone = strings.TrimSpace(in.Phone)
	sup.Email = strings.ToLower(strings.TrimSpace(in.Email))
	sup.Address = strings.TrimSpace(in.Address)
	sup.Notes = in.Notes
	return nil
}

func (s *supplierService) List(ctx context.Context, sess models.Session, query string) ([]models.Supplier, error) {
	q := s.db.WithContext(ctx).Where("restaurant_id = ?", sess.RestaurantID)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + query + "%"
		q = q.Where("name ILIKE ? OR contact_name ILIKE ?", like, like)
	}
	out := make([]models.Supplier, 0)
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, dbError(err, "supplier")
	}
	return out, nil
}

func (s *supplierService) Get(ctx context.Context, sess models.Session, id uint) (models.Supplier, error) {
	var sup models.Supplier
	err := s.db.WithContext(ctx).Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).First(&sup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sup, notFound("supplier", id)
	}
	return sup, dbError(err, "supplier")
}

func (s *supplierService) Create(ctx context.Context, sess models.Session, in SupplierInput) (models.Supplier, error) {
	sup := models.Supplier{RestaurantID: sess.RestaurantID}
	if err := in.apply(&sup); err != nil {
		return sup, err
	}
	if err := s.db.WithContext(ctx).Create(&sup).Error; err != nil {
		return sup, dbError(err, "supplier")
	}
	return sup, nil
}

func (s *supplierService) Update(ctx context.Context, sess models.Session, id uint, in SupplierInput) (models.Supplier, error) {
	sup, err := s.Get(ctx, sess, id)
	if err != nil {
		return sup, err
	}
	if err := in.apply(&sup); err != nil {
		return sup, err
	}
	if err := s.db.WithContext(ctx).Save(&sup).Error; err != nil {
		return sup, dbError(err, "supplier")
	}
	return sup, nil
}

// Delete detaches the supplier from its ingredients before removing it.
func (s *supplierService) Delete(ctx context.Context, sess models.Session, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Ingredient{}).
			Where("supplier_id = ? AND restaurant_id = ?", id, sess.RestaurantID).
			Update("supplier_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND restaurant_id = ?", id, sess.RestaurantID).Delete(&models.Supplier{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound("supplier", id)
		}
		return nil
	})
	return dbError(err, "supplier")
}
