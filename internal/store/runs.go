package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"request-to-standard/internal/config"
	"request-to-standard/internal/models"
)

// Run is one persisted pipeline invocation. The core itself keeps no state;
// this store exists for orchestrators that want the response kept around.
type Run struct {
	bun.BaseModel `bun:"table:standardization_runs,alias:r"`
	ID            int64           `bun:"id,pk,autoincrement"`
	Filename      string          `bun:"filename,notnull"`
	TargetSchema  string          `bun:"target_schema,notnull"`
	Success       bool            `bun:"success,notnull"`
	QualityScore  float64         `bun:"quality_score,notnull"`
	RecordsCount  int             `bun:"records_count,notnull"`
	Response      json.RawMessage `bun:"response,type:jsonb"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func ConnectDB(dbConfig *config.DatabaseConfig) (*sql.DB, error) {
	dsn := dbConfig.DSN + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(dbConfig.Password))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(debug)))
	return db
}

func InitDB(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*Run)(nil)).IfNotExists().Exec(ctx)
	return err
}

// SaveRun persists a full standardization response as one run row.
func SaveRun(ctx context.Context, db *bun.DB, resp *models.StandardizationResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	run := &Run{
		Filename:     resp.FileInfo.Filename,
		TargetSchema: string(resp.SelectedSchema),
		Success:      resp.Success,
		QualityScore: resp.Result.ConfidenceScore,
		RecordsCount: len(resp.Result.Data),
		Response:     payload,
	}
	_, err = db.NewInsert().Model(run).Exec(ctx)
	return err
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(ctx context.Context, db *bun.DB, limit int) ([]Run, error) {
	var runs []Run
	err := db.NewSelect().
		Model(&runs).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return runs, err
}
