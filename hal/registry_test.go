package hal_test

import (
	"testing"

	"github.com/pablode/cgpu/device"
	"github.com/pablode/cgpu/hal"
)

type mockBackend struct {
	kind hal.BackendKind
}

func (m *mockBackend) Kind() hal.BackendKind { return m.kind }

func (m *mockBackend) CreateInstance(_ bool) (hal.Instance, error) {
	return &mockInstance{}, nil
}

type mockInstance struct{}

func (m *mockInstance) EnumerateCandidates() ([]device.Candidate, error) { return nil, nil }
func (m *mockInstance) Open(_ device.Candidate) (hal.Device, error)      { return nil, nil }
func (m *mockInstance) Destroy()                                        {}

func TestRegisterAndGetBackend(t *testing.T) {
	mock := &mockBackend{kind: hal.BackendVulkan}
	hal.RegisterBackend(mock)

	backend, ok := hal.GetBackend(hal.BackendVulkan)
	if !ok {
		t.Fatal("expected backend to be registered")
	}
	if backend.Kind() != hal.BackendVulkan {
		t.Errorf("Kind() = %v, want BackendVulkan", backend.Kind())
	}
}

func TestRegisterBackend_Replacement(t *testing.T) {
	mock1 := &mockBackend{kind: hal.BackendMetal}
	hal.RegisterBackend(mock1)

	mock2 := &mockBackend{kind: hal.BackendMetal}
	hal.RegisterBackend(mock2)

	backend, ok := hal.GetBackend(hal.BackendMetal)
	if !ok {
		t.Fatal("expected backend to be registered")
	}
	if backend.Kind() != hal.BackendMetal {
		t.Errorf("Kind() = %v, want BackendMetal", backend.Kind())
	}
}

func TestGetBackend_NotRegistered(t *testing.T) {
	backend, ok := hal.GetBackend(hal.BackendKind(99))
	if ok {
		t.Error("expected GetBackend to return false for unregistered backend")
	}
	if backend != nil {
		t.Error("expected nil backend for unregistered backend")
	}
}

func TestAvailableBackends_AfterRegistration(t *testing.T) {
	initial := len(hal.AvailableBackends())

	mock := &mockBackend{kind: hal.BackendVulkan}
	hal.RegisterBackend(mock)

	updated := hal.AvailableBackends()
	if len(updated) < initial {
		t.Errorf("expected at least %d backends after registration, got %d", initial, len(updated))
	}

	found := false
	for _, k := range updated {
		if k == hal.BackendVulkan {
			found = true
		}
	}
	if !found {
		t.Error("expected newly registered backend to be in available backends")
	}
}

func TestConcurrentAccess(t *testing.T) {
	done := make(chan bool, 2)

	go func() {
		for i := 0; i < 100; i++ {
			mock := &mockBackend{kind: hal.BackendKind(i % 2)}
			hal.RegisterBackend(mock)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 100; i++ {
			_ = hal.AvailableBackends()
			_, _ = hal.GetBackend(hal.BackendKind(i % 2))
		}
		done <- true
	}()

	<-done
	<-done
}
