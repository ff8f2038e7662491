package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"dynmcp/internal/config"
)

const (
	syncStatusPending = "pending"
	syncStatusSyncing = "syncing"
	syncStatusSynced  = "synced"

	pollIdleSleep = 3 * time.Second
)

// XDSRecord is one row in the dynmcp_xds table. MySQL has no native watch, so
// writes land as pending rows and a scan loop claims them (pending -> syncing
// -> synced) to drive change propagation. Deletes are tombstoned so the scan
// can observe them before the row is reaped.
type XDSRecord struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	XDSKey     string    `gorm:"column:xds_key;size:255;uniqueIndex"`
	XDSType    string    `gorm:"column:xds_type;size:64"`
	XDSJSON    string    `gorm:"column:xds_json;type:text"`
	SyncStatus string    `gorm:"column:sync_status;size:16;index;default:pending"`
	Deleted    bool      `gorm:"column:deleted;default:false"`
	CreateTime time.Time `gorm:"column:create_time;autoCreateTime"`
	UpdateTime time.Time `gorm:"column:update_time;autoUpdateTime"`
}

func (XDSRecord) TableName() string { return "dynmcp_xds" }

// MySQLStore serves the BackingStore contract from a relational table.
type MySQLStore struct {
	db *gorm.DB
}

func NewMySQLStore(cfg config.MySQLConfig) (*MySQLStore, error) {
	db, err := gorm.Open(mysql.Open(cfg.URL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&XDSRecord{}); err != nil {
		return nil, err
	}
	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) GetPrefix(ctx context.Context, prefix string) ([]KV, error) {
	var rows []XDSRecord
	err := s.db.WithContext(ctx).
		Where("xds_key LIKE ? AND deleted = ?", prefix+"%", false).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]KV, 0, len(rows))
	for _, r := range rows {
		out = append(out, KV{Key: r.XDSKey, Value: r.XDSJSON})
	}
	return out, nil
}

// Watch polls for rows whose sync_status is pending. Claimed rows are emitted
// as PUT (or DELETE for tombstones) and marked synced; tombstones are reaped
// after emission. Idle scans sleep a few seconds.
func (s *MySQLStore) Watch(ctx context.Context, prefix string) <-chan WatchEvent {
	events := make(chan WatchEvent, 64)
	go func() {
		defer close(events)
		delay := backoffInitial
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			claimed, err := s.claimPending(ctx, prefix)
			if err != nil {
				log.Warn().Err(err).Str("prefix", prefix).Msg("mysql scan failed")
				if !sleepCtx(ctx, delay) {
					return
				}
				delay = nextBackoff(delay)
				continue
			}
			delay = backoffInitial

			for _, r := range claimed {
				ev := WatchEvent{Key: r.XDSKey}
				if r.Deleted {
					ev.Type = EventDelete
				} else {
					ev.Type = EventPut
					ev.Value = r.XDSJSON
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
				if err := s.finishSync(ctx, r); err != nil {
					log.Warn().Err(err).Str("key", r.XDSKey).Msg("mysql sync mark failed")
				}
			}

			if len(claimed) == 0 {
				if !sleepCtx(ctx, pollIdleSleep) {
					return
				}
			}
		}
	}()
	return events
}

func (s *MySQLStore) claimPending(ctx context.Context, prefix string) ([]XDSRecord, error) {
	var claimed []XDSRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("xds_key LIKE ? AND sync_status = ?", prefix+"%", syncStatusPending).
			Order("id ASC").
			Find(&claimed).Error; err != nil {
			return err
		}
		if len(claimed) == 0 {
			return nil
		}
		keys := make([]string, 0, len(claimed))
		for _, r := range claimed {
			keys = append(keys, r.XDSKey)
		}
		return tx.Model(&XDSRecord{}).
			Where("xds_key IN ?", keys).
			Update("sync_status", syncStatusSyncing).Error
	})
	return claimed, err
}

func (s *MySQLStore) finishSync(ctx context.Context, r XDSRecord) error {
	if r.Deleted {
		return s.db.WithContext(ctx).Where("xds_key = ? AND deleted = ?", r.XDSKey, true).
			Delete(&XDSRecord{}).Error
	}
	return s.db.WithContext(ctx).Model(&XDSRecord{}).
		Where("xds_key = ?", r.XDSKey).
		Update("sync_status", syncStatusSynced).Error
}

func (s *MySQLStore) Put(ctx context.Context, key, value string) error {
	record := XDSRecord{
		XDSKey:     key,
		XDSType:    xdsTypeOf(key),
		XDSJSON:    value,
		SyncStatus: syncStatusPending,
		Deleted:    false,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "xds_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"xds_type", "xds_json", "sync_status", "deleted",
		}),
	}).Create(&record).Error
}

func (s *MySQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var record XDSRecord
	err := s.db.WithContext(ctx).
		Where("xds_key = ? AND deleted = ?", key, false).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return record.XDSJSON, true, nil
}

func (s *MySQLStore) Delete(ctx context.Context, key string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&XDSRecord{}).
		Where("xds_key = ? AND deleted = ?", key, false).
		Updates(map[string]any{
			"deleted":     true,
			"sync_status": syncStatusPending,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func xdsTypeOf(key string) string {
	if strings.HasPrefix(key, IDSPrefix) {
		return "IDS"
	}
	return "TDS"
}
