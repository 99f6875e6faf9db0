package models

// Student is a row of the students table. Perm and Email are unique.
type Student struct {
	ID          int64  `json:"id" form:"-" example:"1"`
	FirstName   string `json:"firstName" form:"firstName" binding:"required" example:"Jane"`
	LastName    string `json:"lastName" form:"lastName" binding:"required" example:"Doe"`
	Perm        int64  `json:"perm" form:"perm" example:"1234567"`
	Email       string `json:"email" form:"email" binding:"required" example:"jdoe@ucsb.edu"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber" binding:"required" example:"805-555-0100"`
	Major       string `json:"major" form:"major" binding:"required" example:"CMPSC"`
}

// StudentKind describes Student to the generic CRUD layers.
var StudentKind = &Kind[Student]{
	Name:  "Student",
	Route: "students",
	Table: "students",
	Key:   func(s *Student) *int64 { return &s.ID },
	// perm 0 is a legal value
	PresentParams: []string{"perm"},
	Columns: []Column[Student]{
		{Name: "first_name", Field: "FirstName", Value: func(s *Student) any { return s.FirstName }, Ref: func(s *Student) any { return &s.FirstName }},
		{Name: "last_name", Field: "LastName", Value: func(s *Student) any { return s.LastName }, Ref: func(s *Student) any { return &s.LastName }},
		{Name: "perm", Field: "Perm", Unique: true, Value: func(s *Student) any { return s.Perm }, Ref: func(s *Student) any { return &s.Perm }},
		{Name: "email", Field: "Email", Unique: true, Value: func(s *Student) any { return s.Email }, Ref: func(s *Student) any { return &s.Email }},
		{Name: "phone_number", Field: "PhoneNumber", Value: func(s *Student) any { return s.PhoneNumber }, Ref: func(s *Student) any { return &s.PhoneNumber }},
		{Name: "major", Field: "Major", Value: func(s *Student) any { return s.Major }, Ref: func(s *Student) any { return &s.Major }},
	},
}
