package inmemdb

import (
	"sync"

	"github.com/darasa/backoffice/core"
	"github.com/darasa/backoffice/core/assignment"
	"github.com/darasa/backoffice/core/cvrequest"
	"github.com/darasa/backoffice/core/session"
	"github.com/darasa/backoffice/core/user"
)

type (
	// DB is a mutex-guarded map store; TEST and local DEV only.
	DB struct {
		session    *sessionTable
		assignment *assignmentTable
		cvrequest  *cvRequestTable
		user       *userTable
		activity   *activityTable
	}

	sessionTable struct {
		t     map[string]*session.Session
		mutex sync.RWMutex
	}

	assignmentTable struct {
		t     map[string]*assignment.Assignment
		mutex sync.RWMutex
	}

	cvRequestTable struct {
		t     map[string]*cvrequest.CVRequest
		mutex sync.RWMutex
	}

	userTable struct {
		t     map[string]*user.User
		mutex sync.RWMutex
	}

	activityTable struct {
		t     []core.Event
		mutex sync.Mutex
	}
)

func Open() *DB {
	return &DB{
		session:    &sessionTable{t: make(map[string]*session.Session)},
		assignment: &assignmentTable{t: make(map[string]*assignment.Assignment)},
		cvrequest:  &cvRequestTable{t: make(map[string]*cvrequest.CVRequest)},
		user:       &userTable{t: make(map[string]*user.User)},
		activity:   &activityTable{},
	}
}
