package store

import (
	"context"
	"errors"

	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KeyValue interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	InitialMigration(ctx context.Context) error
}

type keyValueStore struct {
	db *gorm.DB
}

func NewKeyValueStore(db *gorm.DB) KeyValue {
	return &keyValueStore{db: db}
}

func (k *keyValueStore) InitialMigration(ctx context.Context) error {
	return k.getDB(ctx).AutoMigrate(&model.KeyValue{})
}

func (k *keyValueStore) Get(ctx context.Context, key string) (string, error) {
	var kv model.KeyValue
	if err := k.getDB(ctx).First(&kv, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return kv.Value, nil
}

func (k *keyValueStore) Put(ctx context.Context, key, value string) error {
	kv := model.KeyValue{Key: key, Value: value}
	return k.getDB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&kv).Error
}

func (k *keyValueStore) Delete(ctx context.Context, key string) error {
	return k.getDB(ctx).Where("key = ?", key).Delete(&model.KeyValue{}).Error
}

func (k *keyValueStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return k.db.WithContext(ctx)
}
