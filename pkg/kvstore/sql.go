package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry maps a row of kv_entries.
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Entry) TableName() string { return "kv_entries" }

// SQL stores values in the kv_entries table created by pkg/migrate.
type SQL struct {
	client *db.Client
	now    func() time.Time
}

func NewSQL(client *db.Client) (*SQL, error) {
	if client == nil {
		return nil, errors.New("db client required")
	}
	return &SQL{client: client, now: time.Now}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.client.DB(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: s.now().UTC()}
	return s.client.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.client.DB(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
