package repository

import (
	"context"
	"errors"
	"time"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// SlotRepository 持久化键值槽位接口（游客购物车、登录态）
type SlotRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// GormSlotRepository GORM 实现
type GormSlotRepository struct {
	db *gorm.DB
}

// NewSlotRepository 创建槽位仓库
func NewSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// Get 读取槽位，不存在时返回 false
func (r *GormSlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var slot models.Slot
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return slot.Value, true, nil
}

// Put 更新或创建槽位
func (r *GormSlotRepository) Put(ctx context.Context, key, value string) error {
	db := r.db.WithContext(ctx)
	var slot models.Slot
	err := db.Where("key = ?", key).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&models.Slot{Key: key, Value: value, UpdatedAt: time.Now()}).Error
	}
	if err != nil {
		return err
	}
	slot.Value = value
	slot.UpdatedAt = time.Now()
	return db.Save(&slot).Error
}

// Delete 删除槽位，不存在时不报错
func (r *GormSlotRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.Slot{}).Error
}
