package db

import (
	"github.com/pkg/errors"

	"github.com/folio-reader/folio/internal/profile"
	"github.com/folio-reader/folio/store"
	"github.com/folio-reader/folio/store/db/postgres"
	"github.com/folio-reader/folio/store/db/sqlite"
)

// NewDBDriver creates a new db driver based on profile.
// SQLite is the default for local single-user installs; PostgreSQL is for
// shared deployments.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' and 'postgres' are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
