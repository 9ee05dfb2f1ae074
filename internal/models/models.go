package models

// All returns every model in migration order. Join models come before the
// owners whose many2many relations reference their tables.
func All() []interface{} {
	return []interface{}{
		&Campus{},
		&School{},
		&Department{},
		&User{},
		&Project{},
		&TeamMember{},
		&Team{},
		&Task{},
		&SubTask{},
		&WorkLog{},
		&Comment{},
		&Event{},
	}
}
