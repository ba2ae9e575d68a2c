package model

import "errors"

// Domain sentinel errors shared by repositories and services. Repositories
// translate driver-level not-found results (pgx.ErrNoRows) into ErrNotFound
// so services and handlers never depend on the storage driver.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrDuplicate = errors.New("already exists")
)
