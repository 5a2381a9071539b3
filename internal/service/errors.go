package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIntegrityFault is returned when stored data breaks a uniqueness guarantee
	ErrIntegrityFault = errors.New("data integrity fault")

	// ErrConversionConflict reports that a concurrent writer already created
	// the sale for a proforma. The lifecycle treats it as success.
	ErrConversionConflict = errors.New("sale already created for proforma")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Entity-specific not found errors
var (
	ErrClientNotFound      = fmt.Errorf("client %w", ErrNotFound)
	ErrProformaNotFound    = fmt.Errorf("proforma %w", ErrNotFound)
	ErrSaleNotFound        = fmt.Errorf("sale %w", ErrNotFound)
	ErrProjectNotFound     = fmt.Errorf("project %w", ErrNotFound)
	ErrAssignmentNotFound  = fmt.Errorf("project assignment %w", ErrNotFound)
	ErrPersonnelNotFound   = fmt.Errorf("personnel %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrInventoryNotFound   = fmt.Errorf("inventory item %w", ErrNotFound)
	ErrMaintenanceNotFound = fmt.Errorf("maintenance request %w", ErrNotFound)
)

// Conflicts
var (
	ErrClientInUse           = fmt.Errorf("%w: client is referenced by proformas or sales", ErrConflict)
	ErrProformaHasSale       = fmt.Errorf("%w: proforma has already been converted to a sale", ErrConflict)
	ErrDuplicateSale         = fmt.Errorf("%w: a sale already exists for this proforma", ErrConflict)
	ErrDuplicateProject      = fmt.Errorf("%w: project id already exists", ErrConflict)
	ErrDuplicateUser         = fmt.Errorf("%w: username or email already registered", ErrConflict)
	ErrInsufficientStock     = fmt.Errorf("%w: insufficient stock", ErrConflict)
	ErrDuplicateCatalog      = fmt.Errorf("%w: an entry with this name already exists", ErrConflict)
	ErrDuplicateProformaName = fmt.Errorf("%w: project name already used by another proforma", ErrConflict)
)
