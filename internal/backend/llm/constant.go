package llm

// Log prefixes
const (
	logPrefixInvoke = "internal.backend.llm.Invoke"
)

// DefaultDialect names the SQL dialect in prompts.
const DefaultDialect = "PostgreSQL"

// Prompts
const (
	promptGenerate = `You are a precise SQL expert. Given a question:
1. Create an efficient %s query
2. Submit it with the submit_query tool
Guidelines:
- Use sql_db_list_tables and sql_db_schema to learn the tables you need
- Use indexes, avoid full table scans
- Limit to 10 results unless specified
- No DML statements (INSERT, UPDATE, DELETE, DROP etc.)
- For proper noun filters, use the search_proper_nouns tool
- Join tables: event_url for event & company, homepage_base_url for company & people
- When dealing with queries related to country such as person_country, only use values you get from using the search_country tool
- Use context_manager with "get" to read earlier turns when the question refers to them
- If the question is unrelated to the database, do not call submit_query; briefly explain why instead`

	promptVerify = `You are a %s expert with a strong attention to detail.
Double check the query for common mistakes, including:
- Using NOT IN with NULL values
- Using UNION when UNION ALL should have been used
- Using BETWEEN for exclusive ranges
- Data type mismatch in predicates
- Properly quoting identifiers
- Using the correct number of arguments for functions
- Casting to the correct data type
- Using the proper columns for joins
If there are mistakes, rewrite the query. Call submit_query with the final query,
or reject_query with a reason if it cannot answer the question.`

	promptExecute = `You answer the user's question from the rows returned by a SQL query.
Guidelines:
- Prioritize clarity and brevity
- Include only essential information and key insights
- Create a table or list when handling multiple results
- Never include the SQL query in the answer
Call submit_answer with the final answer.`

	promptDecide = `You decide whether a follow-up question can be answered from the conversation context alone.
Answer "resolved" only when the context already contains everything needed; otherwise answer "generate".
Return only JSON with this format:
{
  "decision": "resolved|generate",
  "answer": "the answer when resolved, empty otherwise",
  "reasoning": "short explanation"
}`
)

// Message fragments
const (
	fragmentQuestion  = "User query: %s"
	fragmentExamples  = "Similar examples:\n%s"
	fragmentContext   = "Conversation context:\n%s"
	fragmentErrors    = "Previous attempts failed:\n%s"
	fragmentGenerate  = "Generate a new SQL query based on the user query and the similar examples."
	fragmentCandidate = "Query:\n%s"
	fragmentResult    = "Rows:\n%s"
)
