package http

import "strings"

// ContentTypeNDJSON is the media type of the status stream.
const ContentTypeNDJSON = "application/x-ndjson"

type queryReq struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"`
}

func (r queryReq) validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errQuestionRequired
	}
	return nil
}
