package domain

// ActiveSession is a minimal external collaborator value: a currently
// in-progress work session the change detector watches for, without the
// engine ever reading its contents beyond key membership.
type ActiveSession struct {
	ID     string
	TaskID string
}
