package board

import (
	"wishboard/internal/app/plan"
	"wishboard/internal/config"
)

// Settings are the display settings of the board this deployment serves.
type Settings = config.Board

type Summary struct {
	Slug   string      `json:"slug"`
	Counts plan.Counts `json:"counts"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
