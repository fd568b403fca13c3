package tools

import (
	"context"
	"fmt"
	"strings"

	"query-gateway/internal/agent"
	"query-gateway/internal/sqlstore"
)

// ListTablesTool lists the tables of the database.
type ListTablesTool struct {
	store sqlstore.Store
}

// NewListTablesTool creates the sql_db_list_tables tool.
func NewListTablesTool(store sqlstore.Store) agent.Tool {
	return &ListTablesTool{store: store}
}

func (t *ListTablesTool) Name() string {
	return NameListTables
}

func (t *ListTablesTool) Description() string {
	return "Input is an empty string, output is a comma-separated list of tables in the database."
}

func (t *ListTablesTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *ListTablesTool) Execute(ctx context.Context, _ map[string]interface{}) (string, error) {
	tables, err := t.store.ListTables(ctx)
	if err != nil {
		return "", fmt.Errorf("list tables failed: %w", err)
	}
	return strings.Join(tables, ", "), nil
}

// SchemaTool describes tables and shows sample rows.
type SchemaTool struct {
	store sqlstore.Store
}

// NewSchemaTool creates the sql_db_schema tool.
func NewSchemaTool(store sqlstore.Store) agent.Tool {
	return &SchemaTool{store: store}
}

func (t *SchemaTool) Name() string {
	return NameSchema
}

func (t *SchemaTool) Description() string {
	return "Input is a comma-separated list of tables, output is the schema and sample rows for those tables. " +
		"Be sure that the tables actually exist by calling sql_db_list_tables first."
}

func (t *SchemaTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"table_names": map[string]interface{}{
				"type":        "string",
				"description": "Comma-separated table names, e.g. people, event_company",
			},
		},
		"required": []string{"table_names"},
	}
}

func (t *SchemaTool) Execute(ctx context.Context, params map[string]interface{}) (string, error) {
	raw, _ := params["table_names"].(string)
	var tables []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tables = append(tables, name)
		}
	}
	if len(tables) == 0 {
		return "", fmt.Errorf("table_names parameter is required")
	}
	return t.store.DescribeTables(ctx, tables)
}
