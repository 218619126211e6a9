package contract

import (
	"fmt"
	"strings"

	"github.com/leecohen23/Phone-compamy-software/internal/domain/shared"
)

// Kind identifies a contract policy
type Kind string

const (
	KindMonthToMonth Kind = "mtm"
	KindTerm         Kind = "term"
	KindPrepaid      Kind = "prepaid"
)

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the kind is known
func (k Kind) IsValid() bool {
	switch k {
	case KindMonthToMonth, KindTerm, KindPrepaid:
		return true
	default:
		return false
	}
}

// Label is the policy name recorded on the bill
func (k Kind) Label() string {
	switch k {
	case KindMonthToMonth:
		return "MTMContract"
	case KindTerm:
		return "TermContract"
	case KindPrepaid:
		return "PrepaidContract"
	default:
		return ""
	}
}

// allKinds lists every supported kind in the order they are documented
var allKinds = []Kind{KindMonthToMonth, KindTerm, KindPrepaid}

// ParseKind parses a kind case-insensitively
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		names := make([]string, len(allKinds))
		for i, kind := range allKinds {
			names[i] = kind.String()
		}
		return "", fmt.Errorf("%w: unknown contract kind %q (want one of %s)",
			shared.ErrInvalidInput, s, strings.Join(names, ", "))
	}
	return k, nil
}
