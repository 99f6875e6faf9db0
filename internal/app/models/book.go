package models

// Book is a row of the books table
type Book struct {
	ID     int64  `json:"id" form:"-" example:"1"`
	Title  string `json:"title" form:"title" binding:"required" example:"Dune"`
	Author string `json:"author" form:"author" binding:"required" example:"Frank Herbert"`
	Date   string `json:"date" form:"date" binding:"required" example:"1965-08-01"`
}

// BookKind describes Book to the generic CRUD layers.
var BookKind = &Kind[Book]{
	Name:  "Book",
	Route: "book",
	Table: "books",
	Key:   func(b *Book) *int64 { return &b.ID },
	Columns: []Column[Book]{
		{Name: "title", Field: "Title", Value: func(b *Book) any { return b.Title }, Ref: func(b *Book) any { return &b.Title }},
		{Name: "author", Field: "Author", Value: func(b *Book) any { return b.Author }, Ref: func(b *Book) any { return &b.Author }},
		{Name: "date", Field: "Date", Value: func(b *Book) any { return b.Date }, Ref: func(b *Book) any { return &b.Date }},
	},
}
