package correction

const (
	DefaultMaxCycles    = 100
	DefaultMaxToolSteps = 8

	// previewRows is how many rows the Intermediate Step preview carries.
	previewRows = 3
	// maxPriorErrors bounds the corrective feedback sent with each Generate.
	maxPriorErrors = 5

	logPrefixRun     = "internal.correction.Run"
	logPrefixDecide  = "internal.correction.decide"
	logPrefixExecute = "internal.correction.execute"
)

// Corrective feedback shown to the backend.
const (
	feedbackWrongTool      = "Error: The wrong tool was called: %s. Please fix your mistakes."
	feedbackMissingQuery   = "Error: submit_query was called without a query. Please fix your mistakes."
	feedbackTooManySteps   = "Error: Too many exploration calls. Please submit a query with submit_query."
	feedbackNotAQuery      = "Error: Only a single read-only SELECT statement can be run (%v). Please fix your mistakes."
	feedbackEmptyReply     = "Error: The reply was empty. Please call submit_query with a query."
	feedbackRejected       = "Error: The query was rejected during review: %s. Please fix your mistakes."
	feedbackQueryFailed    = "Error: Query failed. Please rewrite your query and try again. Cause: %s"
	feedbackNoRows         = "Error: Query returned no rows. Please rewrite your query and try again."
	feedbackEmptyAnswer    = "Error: The answer was empty. Please call submit_answer with a final_answer."
	feedbackTools          = "Error: Tool %s failed: %v"
	msgFallbackAnswer      = "I apologize, but I couldn't generate a proper answer to your query."
	msgResolvedFromContext = "Answered from conversation context"
)

// Progress messages.
const (
	msgDeciding   = "Checking whether the conversation already answers the question"
	msgGenerating = "Generating query (attempt %d)"
	msgVerifying  = "Verifying query"
	msgExecuting  = "Running query against the database"
	msgAnswering  = "Analyzing results"
	msgFinalizing = "Preparing the final answer"
	msgCacheHit   = "Using cached result"
)
