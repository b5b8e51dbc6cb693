package store

import "github.com/hanlee/daylink/internal/models"

// Apply merges one inbound change event into the store, dispatching to one
// reconcile function per entity kind. Duplicate and orphaned events are
// silently absorbed; out-of-order delivery cannot corrupt the mirror, though
// a racing update that beats its insert is lost (accepted trade-off).
func (s *Store) Apply(ev models.ChangeEvent) {
	switch ev.Table {
	case models.TableLogs:
		s.applyLog(ev)
	case models.TableTodos:
		s.applyTodo(ev)
	}
}

func (s *Store) applyLog(ev models.ChangeEvent) {
	if ev.Log == nil {
		return
	}
	switch ev.Type {
	case models.EventInsert:
		s.InsertLog(*ev.Log)
	case models.EventUpdate:
		s.UpdateLog(*ev.Log)
	case models.EventDelete:
		s.RemoveLog(ev.Log.ID)
	}
}

func (s *Store) applyTodo(ev models.ChangeEvent) {
	if ev.Todo == nil {
		return
	}
	switch ev.Type {
	case models.EventInsert:
		s.InsertTodo(*ev.Todo)
	case models.EventUpdate:
		s.UpdateTodo(*ev.Todo)
	case models.EventDelete:
		s.RemoveTodo(ev.Todo.ID)
	}
}
