package bootstrap

import (
	"context"
	"fmt"

	"corebank/internal/bulk"
)

// NoopDirectory is the placeholder bulk.Directory wired when no identity/
// account-directory service is configured. Resolving a national ID to a
// user and its KYC/account state is explicitly an external collaborator
// (spec §1, §6): this process never implements that lookup itself, so until
// a real Directory client is wired in, bulk uploads fail closed row-by-row
// rather than silently fabricating account data.
type NoopDirectory struct{}

func (NoopDirectory) ResolveByNationalID(_ context.Context, nationalID string) (*bulk.ResolvedUser, error) {
	return nil, fmt.Errorf("no identity directory configured: cannot resolve national id %q", nationalID)
}
