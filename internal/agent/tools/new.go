package tools

import (
	"query-gateway/internal/agent"
	"query-gateway/internal/conversation"
	"query-gateway/internal/retrieval"
	"query-gateway/internal/sqlstore"
)

// NewRegistry builds the exploration tools for one request. session may be
// nil, in which case context_manager is not offered.
func NewRegistry(store sqlstore.Store, searcher retrieval.ValueSearcher, session *conversation.Manager) *agent.ToolRegistry {
	r := agent.NewToolRegistry(
		NewListTablesTool(store),
		NewSchemaTool(store),
		NewSearchProperNounsTool(searcher),
		NewSearchCountryTool(searcher),
	)
	if session != nil {
		r.Register(NewContextManagerTool(session))
	}
	return r
}
