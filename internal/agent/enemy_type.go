package agent

import (
	"fmt"
	"strings"

	"github.com/Jordieee/GPC-Trabajo/internal/config"
)

// EnemyType selects an enemy's stat tuple.
type EnemyType int

const (
	EnemyBasic EnemyType = iota
	EnemyFast            // fragile, quick, short cooldown
	EnemyTank            // slow, heavy hits
)

// EnemyTypes lists every type in declaration order.
var EnemyTypes = []EnemyType{EnemyBasic, EnemyFast, EnemyTank}

func (t EnemyType) String() string {
	switch t {
	case EnemyBasic:
		return "basic"
	case EnemyFast:
		return "fast"
	case EnemyTank:
		return "tank"
	default:
		return "unknown"
	}
}

// Symbol is the single-letter glyph used by text viewers.
func (t EnemyType) Symbol() rune {
	switch t {
	case EnemyFast:
		return 'f'
	case EnemyTank:
		return 'T'
	default:
		return 'e'
	}
}

// Stats picks this type's row from the enemy table.
func (t EnemyType) Stats(table config.EnemyTable) config.EnemyStats {
	switch t {
	case EnemyFast:
		return table.Fast
	case EnemyTank:
		return table.Tank
	default:
		return table.Basic
	}
}

// ParseEnemyType is the inverse of String.
func ParseEnemyType(s string) (EnemyType, error) {
	for _, t := range EnemyTypes {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return EnemyBasic, fmt.Errorf("unknown enemy type %q", s)
}
