package employee

import (
	"io"
	"strings"

	"github.com/uptrace/bun"
)

// Employee owns exactly one stored image, referenced by ImagePath. The
// locator must point at an existing asset for as long as the record exists.
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	ID           int      `bun:"id,pk,autoincrement" json:"id"`
	Name         string   `bun:"name,notnull" json:"name"`
	Email        string   `bun:"email,unique,notnull" json:"email"`
	MobileNumber string   `bun:"mobile_number,notnull" json:"mobileNumber"`
	Designation  string   `bun:"designation,notnull" json:"designation"`
	Gender       string   `bun:"gender,notnull" json:"gender"`
	Courses      []string `bun:"courses,array,notnull" json:"courses"`
	ImagePath    string   `bun:"image_path,notnull" json:"imagePath"`
}

// CreateEmployeeRequest carries the multipart form fields of a create call.
// Courses arrive as a comma-delimited string.
type CreateEmployeeRequest struct {
	Name         string `validate:"required"`
	Email        string `validate:"required,email"`
	MobileNumber string `validate:"required"`
	Designation  string `validate:"required"`
	Gender       string `validate:"required"`
	Courses      string `validate:"required"`
}

// UpdateEmployeeRequest carries the multipart form fields of an update call.
type UpdateEmployeeRequest struct {
	Name         string `validate:"required"`
	Email        string `validate:"required,email"`
	MobileNumber string `validate:"required"`
	Designation  string `validate:"required"`
	Gender       string `validate:"required"`
	Courses      string `validate:"required"`
}

// Upload is an image payload received with a create or update request.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ParseCourses splits the delimited course intake into distinct entries,
// trimming whitespace and dropping empty items. At least one course must
// remain; a record is never stored with an empty course list.
func ParseCourses(raw string) ([]string, error) {
	var courses []string
	for _, c := range strings.Split(raw, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		courses = append(courses, c)
	}
	if len(courses) == 0 {
		return nil, ErrInvalidInput
	}
	return courses, nil
}
