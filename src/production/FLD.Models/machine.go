package fldmodels

// MachineBinding maps a machine identifier to the operator it belongs to.
// machine_id uniquely identifies at most one binding at any time; the
// username reference is not enforced as a foreign key.
type MachineBinding struct {
	MachineID string `json:"machine_id" db:"machine_id"`
	Username  string `json:"username" db:"username"`
}
