package interfaces

import (
	"context"

	fldmodels "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Models"
)

type MachineRepository interface {
	// Upsert inserts or overwrites the binding for machineID. Idempotent.
	Upsert(ctx context.Context, binding fldmodels.MachineBinding) error

	// Rename atomically removes the binding under oldID and inserts it under
	// newID. A missing oldID makes the delete a no-op; the insert proceeds.
	Rename(ctx context.Context, oldID, newID, username string) error

	// Delete removes the binding if present. Idempotent.
	Delete(ctx context.Context, machineID string) error

	// List returns all bindings in storage order
	List(ctx context.Context) ([]fldmodels.MachineBinding, error)
}
