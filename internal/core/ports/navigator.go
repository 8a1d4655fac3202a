package ports

import "github.com/notastartupanymore/companywatch/internal/core/domain"

// Navigator performs the "go to the login view" side effect.
type Navigator interface {
	// ToLogin is called once per forced logout. userInitiated is true for an
	// explicit logout.
	ToLogin(cause domain.ExpiryCause, userInitiated bool)
}
