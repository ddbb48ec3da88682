package domain

// Tag is a global label shared across all users' todos. Names are
// case-sensitive and unique; a tag is created the first time its name is
// used and never deleted, even when no todo references it anymore.
type Tag struct {
	ID   int
	Name string `validate:"required,max=50"`
}
