// Package tables validates scanned table tokens before any feedback UI is
// shown. The wizard is reachable only for a token that resolves to an active,
// known table.
package tables

import (
	"context"
	"strings"

	"savora-backend/internal/models"
)

// Status is the outcome of a table-token check. The zero value is Pending so
// a client can render a loading state before the lookup resolves.
type Status int

const (
	StatusPending Status = iota
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "pending"
	}
}

// Lookup is the read-only table access the validator needs. A miss is
// (nil, nil), matching the repository convention.
type Lookup interface {
	FindByToken(ctx context.Context, token string) (*models.Table, error)
}

type Validator struct {
	tables Lookup
}

func NewValidator(tables Lookup) *Validator {
	return &Validator{tables: tables}
}

// Validate resolves a token to a table. Fail-closed: an absent token, a
// lookup error, an unknown token, and an inactive table all come back
// Invalid with no table. No partial or degraded access is ever granted.
func (v *Validator) Validate(ctx context.Context, token string) (Status, *models.Table) {
	token = strings.TrimSpace(token)
	if token == "" {
		return StatusInvalid, nil
	}

	table, err := v.tables.FindByToken(ctx, token)
	if err != nil {
		return StatusInvalid, nil
	}
	if table == nil || !table.Active {
		return StatusInvalid, nil
	}
	return StatusValid, table
}
