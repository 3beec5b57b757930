package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	llmEventsTable    = "llm_request_events"
	exportEventsTable = "export_events"
)

var (
	llmEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
		{Name: "response_body", Type: field.TypeString, Nullable: true, Size: 2147483647},
	}
	llmEventsSchema = &schema.Table{
		Name:       llmEventsTable,
		Columns:    llmEventColumns,
		PrimaryKey: []*schema.Column{llmEventColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventColumns[5]}},
		},
	}

	exportEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "created_at", Type: field.TypeInt64},
		{Name: "format", Type: field.TypeString},
		{Name: "scope", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
		{Name: "plan_count", Type: field.TypeInt},
		{Name: "path", Type: field.TypeString, Nullable: true},
		{Name: "bytes", Type: field.TypeInt64, Default: 0},
		{Name: "printed", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
	}
	exportEventsSchema = &schema.Table{
		Name:       exportEventsTable,
		Columns:    exportEventColumns,
		PrimaryKey: []*schema.Column{exportEventColumns[0]},
	}

	tables = []*schema.Table{llmEventsSchema, exportEventsSchema}
)

// migrate creates or upgrades the event tables.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
