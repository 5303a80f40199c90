// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"todoclist/internal/service"
)

// FakePath is the path reported by FakeService.
const FakePath = "/fake/todoclist.json"

// FakeService is an in-memory implementation of service.Service for testing.
// Load returns a copy, so a command's changes only land through Save.
type FakeService struct {
	mu     sync.Mutex
	list   *service.List
	exists bool

	// Saves counts successful Save calls.
	Saves int
	// Locks counts successful Lock calls; Unlocks counts releases.
	Locks   int
	Unlocks int

	// Error injection for testing
	InitErr error
	LoadErr error
	SaveErr error
	LockErr error
}

// NewFakeService creates a FakeService with no task list.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// NewInitializedFakeService creates a FakeService holding an empty list.
func NewInitializedFakeService() *FakeService {
	return &FakeService{list: service.NewList(), exists: true}
}

// AddTask appends an incomplete task created at created.
func (f *FakeService) AddTask(name string, created time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists {
		f.list = service.NewList()
		f.exists = true
	}
	f.list.Add(service.NewTask(name, created))
}

// CompleteTask marks the task with the given id completed at at.
func (f *FakeService) CompleteTask(id int, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.list.Complete(id, at); err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
}

// Initialized reports whether a task list has been created.
func (f *FakeService) Initialized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.list == nil {
		return nil
	}
	return clone(f.list).Tasks
}

// Path implements service.Service.
func (f *FakeService) Path() string {
	return FakePath
}

// Exists implements service.Service.
func (f *FakeService) Exists(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists, nil
}

// Init implements service.Service.
func (f *FakeService) Init(ctx context.Context) (*service.List, error) {
	if f.InitErr != nil {
		return nil, f.InitErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists {
		return nil, fmt.Errorf("%w: %s", service.ErrAlreadyExists, FakePath)
	}
	f.list = service.NewList()
	f.exists = true
	return service.NewList(), nil
}

// Load implements service.Service.
func (f *FakeService) Load(ctx context.Context, autoInit bool) (*service.List, bool, error) {
	if f.LoadErr != nil {
		return nil, false, f.LoadErr
	}
	f.mu.Lock()
	exists := f.exists
	f.mu.Unlock()

	if !exists {
		if !autoInit {
			return nil, false, fmt.Errorf("%w: %s", service.ErrNotInitialized, FakePath)
		}
		list, err := f.Init(ctx)
		if err != nil {
			return nil, false, err
		}
		return list, true, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.list), false, nil
}

// Save implements service.Service.
func (f *FakeService) Save(ctx context.Context, list *service.List) error {
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = clone(list)
	f.exists = true
	f.Saves++
	return nil
}

// Lock implements service.Service.
func (f *FakeService) Lock(ctx context.Context) (func() error, error) {
	if f.LockErr != nil {
		return nil, f.LockErr
	}
	f.mu.Lock()
	f.Locks++
	f.mu.Unlock()
	return func() error {
		f.mu.Lock()
		f.Unlocks++
		f.mu.Unlock()
		return nil
	}, nil
}

func clone(l *service.List) *service.List {
	out := &service.List{Tasks: make([]service.Task, len(l.Tasks))}
	for i, t := range l.Tasks {
		if t.Completed != nil {
			c := *t.Completed
			t.Completed = &c
		}
		if t.Author != nil {
			a := *t.Author
			t.Author = &a
		}
		out.Tasks[i] = t
	}
	return out
}
