package conversation

const (
	ActionGet    = "get"
	ActionUpdate = "update:"

	MsgContextUpdated = "Context updated successfully"
	MsgInvalidJSON    = "Error: Invalid JSON format for context update"
	MsgInvalidAction  = "Invalid action. Use 'get' to retrieve context or 'update: <new_context>' to update it."
)
