// Package idgen mints the prefixed sequential system ids (TNT-000,
// USR-001, ...) every persisted entity carries. Sequences are global
// per entity kind, not per tenant.
package idgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"devhub-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind identifies an entity kind registered with the allocator.
type Kind string

const (
	KindTenant              Kind = "tenant"
	KindUser                Kind = "user"
	KindProject             Kind = "project"
	KindCustomer            Kind = "customer"
	KindInvoice             Kind = "invoice"
	KindLead                Kind = "lead"
	KindCustomerInteraction Kind = "customer_interaction"
	KindCustomerNote        Kind = "customer_note"
)

// ErrUnknownKind is returned when a caller asks for an id of an
// unregistered entity kind.
var ErrUnknownKind = errors.New("idgen: unknown entity kind")

type registration struct {
	prefix string
	table  string
}

var registry = map[Kind]registration{
	KindTenant:              {prefix: "TNT", table: "tenants"},
	KindUser:                {prefix: "USR", table: "users"},
	KindProject:             {prefix: "PRJ", table: "projects"},
	KindCustomer:            {prefix: "CUS", table: "customers"},
	KindInvoice:             {prefix: "INV", table: "invoices"},
	KindLead:                {prefix: "LED", table: "leads"},
	KindCustomerInteraction: {prefix: "INT", table: "customer_interactions"},
	KindCustomerNote:        {prefix: "NOT", table: "customer_notes"},
}

// suffixPattern matches the numeric part of a system id. Minimum three
// digits, zero padded; sequences past 999 widen naturally.
var suffixPattern = regexp.MustCompile(`^(\d{3,})$`)

// Prefix returns the registered prefix for a kind.
func Prefix(kind Kind) (string, error) {
	reg, ok := registry[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return reg.prefix, nil
}

// Next allocates the next system id for the given kind. It must be
// called inside the transaction that persists the new row: the sequence
// row is locked FOR UPDATE, so concurrent allocations for the same kind
// serialize and can never hand out the same id. A rolled-back
// transaction leaves a gap in the sequence, which is allowed.
//
// The first allocation for a kind seeds the counter from the highest
// suffix already present in the kind's table, so databases that predate
// the sequence table keep numbering where they left off.
func Next(tx *gorm.DB, kind Kind) (string, error) {
	reg, ok := registry[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	var seq model.IDSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("kind = ?", string(kind)).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		next, seedErr := seedSequence(tx, reg)
		if seedErr != nil {
			return "", seedErr
		}
		seq = model.IDSequence{Kind: string(kind), Next: next}
		if createErr := tx.Create(&seq).Error; createErr != nil {
			// Lost the race to create the row; take the lock on the
			// row the winner inserted.
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("kind = ?", string(kind)).
				First(&seq).Error
			if err != nil {
				return "", fmt.Errorf("idgen: create sequence for %s: %w", kind, createErr)
			}
		}
	} else if err != nil {
		return "", fmt.Errorf("idgen: lock sequence for %s: %w", kind, err)
	}

	n := seq.Next
	if err := tx.Model(&model.IDSequence{}).
		Where("kind = ?", string(kind)).
		Update("next", n+1).Error; err != nil {
		return "", fmt.Errorf("idgen: advance sequence for %s: %w", kind, err)
	}

	return fmt.Sprintf("%s-%03d", reg.prefix, n), nil
}

// seedSequence scans the kind's table for existing system ids and
// returns max suffix + 1, or 0 for an empty table.
func seedSequence(tx *gorm.DB, reg registration) (int, error) {
	var ids []string
	if err := tx.Table(reg.table).
		Where("system_id LIKE ?", reg.prefix+"-%").
		Pluck("system_id", &ids).Error; err != nil {
		return 0, fmt.Errorf("idgen: seed scan of %s: %w", reg.table, err)
	}

	next := 0
	prefixLen := len(reg.prefix) + 1
	for _, id := range ids {
		if len(id) <= prefixLen {
			continue
		}
		m := suffixPattern.FindStringSubmatch(id[prefixLen:])
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// Validate reports whether id is a well-formed system id for the given
// kind: exact-case prefix, dash, and a zero-padded numeric suffix of at
// least three digits.
func Validate(kind Kind, id string) bool {
	reg, ok := registry[kind]
	if !ok {
		return false
	}
	prefixLen := len(reg.prefix) + 1
	if len(id) <= prefixLen || id[:prefixLen] != reg.prefix+"-" {
		return false
	}
	return suffixPattern.MatchString(id[prefixLen:])
}

// DisplayID maps a system id to the identifier shown in the UI. Pure
// presentation; carries no uniqueness guarantee.
func DisplayID(systemID string, isFounder bool, userRole string) string {
	if isFounder && systemID == model.FounderSystemID {
		return "FOUNDER"
	}
	if userRole == model.RoleBusinessOwner {
		return model.RoleBusinessOwner
	}
	return systemID
}
