package reconcile

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownAccount = errors.New("unknown account")

// SelectAccounts resolves names against the configured name→token map. No
// names selects every account. The result is ordered by name.
func SelectAccounts(configured map[string]string, names []string) ([]Account, error) {
	if len(names) == 0 {
		names = make([]string, 0, len(configured))
		for name := range configured {
			names = append(names, name)
		}
	}

	accounts := make([]Account, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}

		token, ok := configured[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownAccount, name)
		}

		accounts = append(accounts, Account{Name: name, AccessToken: token})
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	return accounts, nil
}
