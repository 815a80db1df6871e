package dev

import (
	"github.com/nu7hatch/gouuid"
	"time"
)

// Error is an audit record of an external collaborator failure (registry
// transfer, payout). The enclosing operation has already been rolled back by
// the time one of these is recorded.
type Error struct {
	ID        string                 `json:"id"`
	Time      time.Time              `json:"time"`
	Component string                 `json:"component"`
	Name      string                 `json:"name"`
	Error     string                 `json:"error"`
	Extra     map[string]interface{} `json:"extra"`
}

func (e Error) Slug() string {
	return e.ID
}

func NewError(component, name string, err error, extra map[string]interface{}) Error {
	u, _ := uuid.NewV4()

	return Error{
		ID:        u.String(),
		Time:      time.Now(),
		Component: component,
		Name:      name,
		Error:     err.Error(),
		Extra:     extra,
	}
}
