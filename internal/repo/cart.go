package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/restaurant_web/internal/domain"
	"github.com/Skotchmaster/restaurant_web/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, owner string) (*domain.Cart, error) {
	return loadCart(r.DB.WithContext(ctx), owner, false)
}

// UpdateCart loads the owner's cart, applies fn and stores the result in one
// transaction. Nothing is written when fn fails.
func (r *GormRepo) UpdateCart(ctx context.Context, owner string, fn func(*domain.Cart) error) (*domain.Cart, error) {
	var out *domain.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := loadCart(tx, owner, r.lockable())
		if err != nil {
			return err
		}
		if err := fn(cart); err != nil {
			return err
		}
		if err := saveCart(tx, owner, cart); err != nil {
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) DeleteAllFromCart(ctx context.Context, owner string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner = ?", owner).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Where("owner = ?", owner).Delete(&models.CartDiscount{}).Error
	})
}

func loadCart(tx *gorm.DB, owner string, lock bool) (*domain.Cart, error) {
	q := tx.Where("owner = ?", owner).Order("position, dish_id")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.CartItem
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	var disc models.CartDiscount
	err := tx.Where("owner = ?", owner).First(&disc).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, domain.CartItem{
			DishID:   row.DishID,
			Name:     row.Name,
			Price:    row.Price,
			Image:    row.Image,
			Quantity: row.Quantity,
		})
	}
	return domain.NewCart(items, domain.Discount{Code: disc.Code, Percentage: disc.Percentage}), nil
}

func saveCart(tx *gorm.DB, owner string, cart *domain.Cart) error {
	items := cart.Items()
	keep := make([]int, 0, len(items))

	for i, it := range items {
		row := models.CartItem{
			Owner:    owner,
			DishID:   it.DishID,
			Name:     it.Name,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
			Position: i,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "dish_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "price", "image", "quantity", "position", "updated_at"}),
		}).Create(&row).Error
		if err != nil {
			return err
		}
		keep = append(keep, it.DishID)
	}

	stale := tx.Where("owner = ?", owner)
	if len(keep) > 0 {
		stale = stale.Where("dish_id NOT IN ?", keep)
	}
	if err := stale.Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	d := cart.Discount()
	if d.Code == "" {
		return tx.Where("owner = ?", owner).Delete(&models.CartDiscount{}).Error
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "percentage", "updated_at"}),
	}).Create(&models.CartDiscount{Owner: owner, Code: d.Code, Percentage: d.Percentage}).Error
}
