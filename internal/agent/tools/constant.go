package tools

// Tool names offered to the backend.
const (
	NameListTables        = "sql_db_list_tables"
	NameSchema            = "sql_db_schema"
	NameSearchProperNouns = "search_proper_nouns"
	NameSearchCountry     = "search_country"
	NameContextManager    = "context_manager"
)
