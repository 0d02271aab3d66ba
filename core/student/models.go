package student

import (
	"time"

	"github.com/riyazhq/riyaz/core"
)

// Monthly package sizes. A student is billed for either 4 or 8 lessons a month.
const (
	PackageFour  = 4
	PackageEight = 8
)

// Student is a teacher's roster entry for a pupil. It is distinct from the
// lessons scheduled for that pupil: deleting a Student never deletes their
// lessons, so historical billing records survive roster changes.
type Student struct {
	ID             string    `json:"id" db:"id"`
	TeacherID      string    `json:"teacher_id" db:"teacher_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	Instrument     string    `json:"instrument" db:"instrument"`
	FeePerClass    int       `json:"fee_per_class" db:"fee_per_class"`
	MonthlyPackage int       `json:"monthly_package" db:"monthly_package"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	Instrument     string `json:"instrument" validate:"required"`
	FeePerClass    int    `json:"fee_per_class" validate:"min=0"`
	MonthlyPackage int    `json:"monthly_package" validate:"oneof=4 8"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Instrument = core.CleanString(ns.Instrument)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing
// Student. Changes never propagate to lessons already generated from the old
// values; those carry a snapshot taken at scheduling time.
type UpdateStudent struct {
	Name           string `json:"name"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	Instrument     string `json:"instrument"`
	FeePerClass    *int   `json:"fee_per_class" validate:"omitempty,min=0"`
	MonthlyPackage *int   `json:"monthly_package" validate:"omitempty,oneof=4 8"`
}

func (us *UpdateStudent) Validate(orig Student) error {
	if name := core.CleanString(us.Name); name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}
	if email := core.CleanString(us.Email, true /* lower */); email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}
	if phone := core.CleanString(us.Phone); phone != "" {
		us.Phone = phone
	} else {
		us.Phone = orig.Phone
	}
	if instr := core.CleanString(us.Instrument); instr != "" {
		us.Instrument = instr
	} else {
		us.Instrument = orig.Instrument
	}
	return core.Validate.Struct(us)
}
