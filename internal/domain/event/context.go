package event

import "fmt"

// ContextLevel classifies the scope an action happened in.
type ContextLevel int

const (
	ContextSystem    ContextLevel = 10
	ContextUser      ContextLevel = 30
	ContextCourseCat ContextLevel = 40
	ContextCourse    ContextLevel = 50
	ContextModule    ContextLevel = 70
	ContextBlock     ContextLevel = 80
)

var contextLevelNames = map[ContextLevel]string{
	ContextSystem:    "system",
	ContextUser:      "user",
	ContextCourseCat: "coursecat",
	ContextCourse:    "course",
	ContextModule:    "module",
	ContextBlock:     "block",
}

// Valid reports whether l is a known context level.
func (l ContextLevel) Valid() bool {
	_, ok := contextLevelNames[l]
	return ok
}

func (l ContextLevel) String() string {
	if name, ok := contextLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("contextlevel(%d)", int(l))
}

// Context identifies where an event happened. For module contexts InstanceID is
// the course module id.
type Context struct {
	ID         int64
	Level      ContextLevel
	InstanceID int64
}

// ModuleContext builds a module-level context for the given course module.
func ModuleContext(contextID, cmID int64) Context {
	return Context{ID: contextID, Level: ContextModule, InstanceID: cmID}
}

// CRUD is the one-letter create/read/update/delete tag carried by every record.
type CRUD string

const (
	CRUDCreate CRUD = "c"
	CRUDRead   CRUD = "r"
	CRUDUpdate CRUD = "u"
	CRUDDelete CRUD = "d"
)

// Valid reports whether c is one of c, r, u, d.
func (c CRUD) Valid() bool {
	switch c {
	case CRUDCreate, CRUDRead, CRUDUpdate, CRUDDelete:
		return true
	}
	return false
}

// EduLevel tells whether an event has teaching significance.
type EduLevel int

const (
	EduLevelOther         EduLevel = 0
	EduLevelTeaching      EduLevel = 1
	EduLevelParticipating EduLevel = 2
)

// Valid reports whether e is a known level.
func (e EduLevel) Valid() bool {
	return e == EduLevelOther || e == EduLevelTeaching || e == EduLevelParticipating
}
