package policies

import (
	"errors"
	"testing"
)

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name        string
		managerType string
		factory     func() any
	}{
		{name: "empty manager type", managerType: "", factory: func() any { return &fakeManager{} }},
		{name: "nil factory", managerType: "someManager", factory: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register() did not panic")
				}
			}()
			Register(tt.managerType, tt.factory)
		})
	}
}

func TestRegisteredTypes(t *testing.T) {
	Register("zzz-test-manager", func() any { return &fakeManager{} })
	Register("aaa-test-manager", func() any { return &fakeManager{} })
	defer Deregister("zzz-test-manager")
	defer Deregister("aaa-test-manager")

	types := RegisteredTypes()
	var sawA, sawZ bool
	for i, name := range types {
		if i > 0 && types[i-1] > name {
			t.Fatalf("RegisteredTypes() not sorted: %v", types)
		}
		switch name {
		case "aaa-test-manager":
			sawA = true
		case "zzz-test-manager":
			sawZ = true
		}
	}
	if !sawA || !sawZ {
		t.Errorf("RegisteredTypes() = %v, missing test registrations", types)
	}

	Deregister("aaa-test-manager")
	for _, name := range RegisteredTypes() {
		if name == "aaa-test-manager" {
			t.Error("Deregister() did not remove the registration")
		}
	}
}

func TestInstantiatePolicyManager(t *testing.T) {
	tests := []struct {
		name        string
		managerType string
		factory     func() any
		wantCause   error
	}{
		{
			name:        "registered manager",
			managerType: "instManager",
			factory:     func() any { return &fakeManager{} },
		},
		{
			name:        "unknown manager type",
			managerType: "noSuchManager",
			wantCause:   ErrUnknownManagerType,
		},
		{
			name:        "factory returns nil",
			managerType: "nilManager",
			factory:     func() any { return nil },
			wantCause:   ErrManagerConstruction,
		},
		{
			name:        "factory panics",
			managerType: "panicManager",
			factory:     func() any { panic("broken registration") },
			wantCause:   ErrManagerConstruction,
		},
		{
			name:        "factory produces wrong type",
			managerType: "wrongTypeManager",
			factory:     func() any { return "not a manager" },
			wantCause:   ErrManagerContract,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.factory != nil {
				Register(tt.managerType, tt.factory)
				defer Deregister(tt.managerType)
			}

			manager, err := InstantiatePolicyManager(tt.managerType)

			if tt.wantCause == nil {
				if err != nil {
					t.Fatalf("InstantiatePolicyManager() error = %v", err)
				}
				if manager == nil {
					t.Fatal("InstantiatePolicyManager() returned nil manager")
				}
				return
			}

			if manager != nil {
				t.Errorf("manager = %v, want nil", manager)
			}
			if !errors.Is(err, ErrPolicyInitialization) {
				t.Fatalf("error = %v, want ErrPolicyInitialization", err)
			}
			if !errors.Is(err, tt.wantCause) {
				t.Errorf("error chain %v does not contain %v", err, tt.wantCause)
			}

			var initErr *PolicyInitializationError
			if !errors.As(err, &initErr) {
				t.Fatalf("error type = %T, want *PolicyInitializationError", err)
			}
			if initErr.ManagerType != tt.managerType {
				t.Errorf("ManagerType = %q, want %q", initErr.ManagerType, tt.managerType)
			}
		})
	}
}
