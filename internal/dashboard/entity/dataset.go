package entity

import "time"

// UploadPayload is what the browser upload widget hands over: a data URL
// ("data:text/csv;base64,<body>") and the declared file name.
type UploadPayload struct {
	Content  string
	FileName string
}

// Dataset is a parsed upload kept between chart interactions.
type Dataset struct {
	ID        string
	Hash      string
	FileName  string
	Table     *Table
	CreatedAt time.Time
}
