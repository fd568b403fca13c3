package retrieval

import "errors"

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrNoExemplars       = errors.New("no exemplars loaded")
)
