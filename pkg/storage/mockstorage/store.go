// Package mockstorage provides a func-field mock of the storage.Store
// interface for tests, with per-method call counters.
package mockstorage

import (
	"context"
	"sync"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
	"github.com/foliopress/folio/pkg/storage/status"
)

var _ storage.Store = &StoreMock{}

// StoreMock mocks the storage.Store interface. Unset funcs return
// status.ErrNotSupported.
type StoreMock struct {
	ReadBranchHeadFunc   func(ctx context.Context, cred auth.Credential, branch string) (model.Hash, error)
	ListPathsFunc        func(ctx context.Context, cred auth.Credential, prefix string, at model.Hash) ([]string, error)
	CreateTreeFunc       func(ctx context.Context, cred auth.Credential, deletions model.MutationSet, base model.Hash) (model.Hash, error)
	CreateCommitFunc     func(ctx context.Context, cred auth.Credential, tree model.Hash, parents []model.Hash, message string) (model.Hash, error)
	GetCommitFunc        func(ctx context.Context, cred auth.Credential, commit model.Hash) (model.CommitDescriptor, error)
	UpdateBranchHeadFunc func(ctx context.Context, cred auth.Credential, branch string, expectedOld, next model.Hash) error

	mu    sync.Mutex
	calls map[string]int
}

func (m *StoreMock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// CallCount reports how many times a method was invoked
func (m *StoreMock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls reports how many storage calls were made overall
func (m *StoreMock) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.calls {
		total += n
	}
	return total
}

func (m *StoreMock) String() string {
	return "mockstorage"
}

// ReadBranchHead mock
func (m *StoreMock) ReadBranchHead(ctx context.Context, cred auth.Credential, branch string) (model.Hash, error) {
	m.record("ReadBranchHead")
	if m.ReadBranchHeadFunc == nil {
		return model.NilHash, status.ErrNotSupported
	}
	return m.ReadBranchHeadFunc(ctx, cred, branch)
}

// ListPaths mock
func (m *StoreMock) ListPaths(ctx context.Context, cred auth.Credential, prefix string, at model.Hash) ([]string, error) {
	m.record("ListPaths")
	if m.ListPathsFunc == nil {
		return nil, status.ErrNotSupported
	}
	return m.ListPathsFunc(ctx, cred, prefix, at)
}

// CreateTree mock
func (m *StoreMock) CreateTree(ctx context.Context, cred auth.Credential, deletions model.MutationSet, base model.Hash) (model.Hash, error) {
	m.record("CreateTree")
	if m.CreateTreeFunc == nil {
		return model.NilHash, status.ErrNotSupported
	}
	return m.CreateTreeFunc(ctx, cred, deletions, base)
}

// CreateCommit mock
func (m *StoreMock) CreateCommit(ctx context.Context, cred auth.Credential, tree model.Hash, parents []model.Hash, message string) (model.Hash, error) {
	m.record("CreateCommit")
	if m.CreateCommitFunc == nil {
		return model.NilHash, status.ErrNotSupported
	}
	return m.CreateCommitFunc(ctx, cred, tree, parents, message)
}

// GetCommit mock
func (m *StoreMock) GetCommit(ctx context.Context, cred auth.Credential, commit model.Hash) (model.CommitDescriptor, error) {
	m.record("GetCommit")
	if m.GetCommitFunc == nil {
		return model.CommitDescriptor{}, status.ErrNotSupported
	}
	return m.GetCommitFunc(ctx, cred, commit)
}

// UpdateBranchHead mock
func (m *StoreMock) UpdateBranchHead(ctx context.Context, cred auth.Credential, branch string, expectedOld, next model.Hash) error {
	m.record("UpdateBranchHead")
	if m.UpdateBranchHeadFunc == nil {
		return status.ErrNotSupported
	}
	return m.UpdateBranchHeadFunc(ctx, cred, branch, expectedOld, next)
}
