// Package interfaces defines cache operation contracts used by repositories.
package interfaces

// OptionCache defines operations for the persisted option cache
type OptionCache interface {
	GetOption(name string) ([]byte, bool)
	SetOption(name string, value []byte)
	InvalidateOption(name string)
	InvalidateAll()
}
