package http

import "errors"

var errQuestionRequired = errors.New("question is required")
