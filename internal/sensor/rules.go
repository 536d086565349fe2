package sensor

import (
	"github.com/scan-io-git/scanio-fxcop/pkg/shared/config"
	errs "github.com/scan-io-git/scanio-fxcop/pkg/shared/errors"
)

// RuleMap maps FxCop check ids to rule keys.
// An empty map enables every check and keys rules by their check id.
type RuleMap struct {
	repository string
	keys       map[string]string
	order      []string
}

// NewRuleMap builds the mapping of the configured rules. A rule without key is keyed by its check id.
func NewRuleMap(repository string, rules []config.FxCopRule) *RuleMap {
	m := &RuleMap{repository: repository, keys: make(map[string]string, len(rules))}
	for _, r := range rules {
		if _, seen := m.keys[r.CheckID]; seen {
			continue
		}
		key := r.Key
		if key == "" {
			key = r.CheckID
		}
		m.keys[r.CheckID] = key
		m.order = append(m.order, r.CheckID)
	}
	return m
}

// EnabledCheckIDs lists the configured check ids in configuration order.
func (m *RuleMap) EnabledCheckIDs() []string {
	return m.order
}

// RuleKey returns the rule key of checkID.
func (m *RuleMap) RuleKey(checkID string) (string, error) {
	if len(m.keys) == 0 {
		return checkID, nil
	}
	if key, ok := m.keys[checkID]; ok {
		return key, nil
	}
	return "", errs.NewStateError(nil,
		"Unable to find the rule key corresponding to the rule config key %q in repository %q.", checkID, m.repository)
}
