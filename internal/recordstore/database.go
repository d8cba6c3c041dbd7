package recordstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storedRecord is the relational shape of one record: identity and table
// name as real columns, every schema field inside a JSONB document. Keeps
// the store generic over entity tables the same way the hosted service is.
type storedRecord struct {
	ID        uint              `gorm:"primaryKey"`
	Table     string            `gorm:"column:table_name;size:64;index"`
	Fields    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (storedRecord) TableName() string { return "records" }

// DatabaseGateway is the self-hosted Gateway implementation on Postgres.
type DatabaseGateway struct {
	db *gorm.DB
}

func NewDatabaseGateway(dsn string) (*DatabaseGateway, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&storedRecord{}); err != nil {
		return nil, fmt.Errorf("migrate records table: %w", err)
	}
	return &DatabaseGateway{db: db}, nil
}

func (g *DatabaseGateway) toRecord(row storedRecord) Record {
	rec := make(Record, len(row.Fields)+2)
	for k, v := range row.Fields {
		rec[k] = v
	}
	rec["Id"] = int(row.ID)
	rec["CreatedOn"] = row.CreatedAt.UTC().Format(time.RFC3339)
	return rec
}

func (g *DatabaseGateway) List(ctx context.Context, table string, opts ListOptions) ([]Record, error) {
	q := g.db.WithContext(ctx).Where("table_name = ?", table)

	for _, c := range opts.Where {
		q = q.Where(datatypes.JSONQuery("fields").Equals(c.Equals, c.Field))
	}

	order := "id"
	if opts.OrderBy == "CreatedOn" {
		order = "created_at"
	}
	if opts.Descending {
		order += " DESC"
	}
	q = q.Order(order)

	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	var rows []storedRecord
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, g.toRecord(row))
	}
	return recs, nil
}

func (g *DatabaseGateway) GetByID(ctx context.Context, table string, id any) (Record, error) {
	n, err := CoerceID(id)
	if err != nil {
		return nil, err
	}

	var row storedRecord
	err = g.db.WithContext(ctx).
		Where("table_name = ? AND id = ?", table, n).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s id %d: %w", table, n, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	return g.toRecord(row), nil
}

func (g *DatabaseGateway) Create(ctx context.Context, table string, rec Record) (Record, error) {
	fields := make(datatypes.JSONMap, len(rec))
	for k, v := range rec {
		if k == "Id" || k == "CreatedOn" {
			continue
		}
		fields[k] = v
	}

	row := storedRecord{Table: table, Fields: fields}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	return g.toRecord(row), nil
}

func (g *DatabaseGateway) Update(ctx context.Context, table string, id any, rec Record) (Record, error) {
	n, err := CoerceID(id)
	if err != nil {
		return nil, err
	}

	var row storedRecord
	err = g.db.WithContext(ctx).
		Where("table_name = ? AND id = ?", table, n).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s id %d: %w", table, n, ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}

	if row.Fields == nil {
		row.Fields = datatypes.JSONMap{}
	}
	for k, v := range rec {
		if k == "Id" || k == "CreatedOn" {
			continue
		}
		row.Fields[k] = v
	}
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailure, err)
	}
	return g.toRecord(row), nil
}

func (g *DatabaseGateway) Delete(ctx context.Context, table string, id any) (bool, error) {
	n, err := CoerceID(id)
	if err != nil {
		return false, err
	}

	res := g.db.WithContext(ctx).
		Where("table_name = ? AND id = ?", table, n).
		Delete(&storedRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrRemoteFailure, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (g *DatabaseGateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (g *DatabaseGateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var _ Gateway = (*DatabaseGateway)(nil)
