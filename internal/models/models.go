package model

// All lists every persisted entity in migration order.
func All() []any {
	return []any{&User{}, &Task{}, &File{}, &TaskEdit{}, &EditFile{}}
}
