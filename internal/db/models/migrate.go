package models

// All returns every model in migration order.
func All() []any {
	return []any{
		&ContentType{},
		&Attribute{},
		&JSONValue{},
		&ForeignKeyValue{},
		&ManyToManyValue{},
		&Group{},
		&User{},
		&Tag{},
		&Template{},
		&Page{},
		&Contentlet{},
		&Site{},
	}
}
