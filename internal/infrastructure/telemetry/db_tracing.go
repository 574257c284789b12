package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled bool
	// IncludeVariables puts bound values into db.statement; keep off in production
	IncludeVariables bool
	SlowQueryThresh  time.Duration
	DBName           string
}

// DefaultDBTracingConfig returns the production-safe defaults
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "postgresql",
	}
}

type queryStartKey struct{}

// DBTracingPlugin registers otelgorm plus callbacks that flag slow queries
// on the query span.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

// Register installs the plugin on db; a disabled plugin does nothing
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	// timing hooks run before otelgorm's after hook ends the span
	cb := db.Callback()
	hooks := []struct {
		name   string
		before func() error
		after  func() error
	}{
		{"create",
			func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", p.before) },
			func() error {
				return cb.Create().After("gorm:create").Before("otel:after:create").Register("otel_timing:after_create", p.after)
			}},
		{"query",
			func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", p.before) },
			func() error {
				return cb.Query().After("gorm:query").Before("otel:after:select").Register("otel_timing:after_query", p.after)
			}},
		{"update",
			func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", p.before) },
			func() error {
				return cb.Update().After("gorm:update").Before("otel:after:update").Register("otel_timing:after_update", p.after)
			}},
		{"delete",
			func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", p.before) },
			func() error {
				return cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("otel_timing:after_delete", p.after)
			}},
		{"row",
			func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", p.before) },
			func() error {
				return cb.Row().After("gorm:row").Before("otel:after:row").Register("otel_timing:after_row", p.after)
			}},
		{"raw",
			func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", p.before) },
			func() error {
				return cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("otel_timing:after_raw", p.after)
			}},
	}
	for _, h := range hooks {
		if err := h.before(); err != nil {
			return fmt.Errorf("register %s timing hook: %w", h.name, err)
		}
		if err := h.after(); err != nil {
			return fmt.Errorf("register %s timing hook: %w", h.name, err)
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("include_variables", p.config.IncludeVariables),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			p.logger.Warn("slow query",
				zap.String("table", db.Statement.Table),
				zap.Duration("elapsed", elapsed))
		}
	}
}
