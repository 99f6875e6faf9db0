package models

// Vehicle is a row of the vehicles table. Licence is unique.
type Vehicle struct {
	ID      int64  `json:"id" form:"-" example:"1"`
	Brand   string `json:"brand" form:"brand" binding:"required" example:"Cadillac"`
	Model   string `json:"model" form:"model" binding:"required" example:"Escalade"`
	Licence string `json:"licence" form:"licence" binding:"required" example:"OG1"`
	Year    string `json:"year" form:"year" binding:"required" example:"2023"`
}

// VehicleKind describes Vehicle to the generic CRUD layers.
var VehicleKind = &Kind[Vehicle]{
	Name:  "Vehicle",
	Route: "vehicle",
	Table: "vehicles",
	Key:   func(v *Vehicle) *int64 { return &v.ID },
	Columns: []Column[Vehicle]{
		{Name: "brand", Field: "Brand", Indexed: true, Value: func(v *Vehicle) any { return v.Brand }, Ref: func(v *Vehicle) any { return &v.Brand }},
		{Name: "model", Field: "Model", Value: func(v *Vehicle) any { return v.Model }, Ref: func(v *Vehicle) any { return &v.Model }},
		{Name: "licence", Field: "Licence", Unique: true, Value: func(v *Vehicle) any { return v.Licence }, Ref: func(v *Vehicle) any { return &v.Licence }},
		{Name: "year", Field: "Year", Value: func(v *Vehicle) any { return v.Year }, Ref: func(v *Vehicle) any { return &v.Year }},
	},
}
