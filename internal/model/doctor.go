package model

type Doctor struct {
	Base
	FirstName       string       `db:"first_name" json:"first_name"`
	LastName        string       `db:"last_name" json:"last_name"`
	Specialization  string       `db:"specialization" json:"specialization"`
	Email           string       `db:"email" json:"email"`
	Phone           string       `db:"phone" json:"phone"`
	LicenseNumber   string       `db:"license_number" json:"license_number"`
	ExperienceYears int          `db:"experience_years" json:"experience_years"`
	Rating          float64      `db:"rating" json:"rating"`
	Avatar          string       `db:"avatar" json:"avatar,omitempty"`
	Status          EntityStatus `db:"status" json:"status"`
}

type CreateDoctorRequest struct {
	FirstName       string  `json:"first_name" binding:"required,max=100"`
	LastName        string  `json:"last_name" binding:"required,max=100"`
	Specialization  string  `json:"specialization" binding:"required,max=100"`
	Email           string  `json:"email" binding:"required,email"`
	Phone           string  `json:"phone" binding:"required,max=20"`
	LicenseNumber   string  `json:"license_number" binding:"required,max=50"`
	ExperienceYears int     `json:"experience_years" binding:"gte=0"`
	Rating          float64 `json:"rating" binding:"gte=0,lte=5"`
	Avatar          string  `json:"avatar"`
}

type UpdateDoctorRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Specialization  *string  `json:"specialization"`
	Email           *string  `json:"email" binding:"omitempty,email"`
	Phone           *string  `json:"phone"`
	LicenseNumber   *string  `json:"license_number"`
	ExperienceYears *int     `json:"experience_years"`
	Rating          *float64 `json:"rating"`
	Avatar          *string  `json:"avatar"`
}

type DoctorFilters struct {
	SearchTerm     string `form:"search"`
	Specialization string `form:"specialization"`
	Pagination
}
