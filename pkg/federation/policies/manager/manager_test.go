package manager

import (
	"errors"
	"testing"

	mockfederation "stratus-hq/federation/internal/federation"
	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/policies/amrmproxy"
)

func newContext(t *testing.T, managerType string, params []byte) *policies.PolicyInitializationContext {
	t.Helper()
	facade := mockfederation.NewMockFacade()
	facade.Resolver = mockfederation.NewMockResolver("sc-1", "sc-2")
	configuration := policies.NewPolicyConfiguration("root.jobs", managerType, params)
	ctx, err := policies.NewPolicyInitializationContext(configuration, facade, "sc-home")
	if err != nil {
		t.Fatalf("NewPolicyInitializationContext() error = %v", err)
	}
	return ctx
}

func TestBuiltinTypesRegistered(t *testing.T) {
	registered := make(map[string]bool)
	for _, name := range policies.RegisteredTypes() {
		registered[name] = true
	}
	for _, name := range []string{TypeUniform, TypeWeighted, TypePriority, TypeReject} {
		if !registered[name] {
			t.Errorf("manager type %q not registered", name)
		}
	}
}

func TestManagersInstantiableByName(t *testing.T) {
	for _, name := range []string{TypeUniform, TypeWeighted, TypePriority, TypeReject} {
		t.Run(name, func(t *testing.T) {
			manager, err := policies.InstantiatePolicyManager(name)
			if err != nil {
				t.Fatalf("InstantiatePolicyManager(%q) error = %v", name, err)
			}
			manager.SetQueue("root.jobs")
			if manager.Queue() != "root.jobs" {
				t.Errorf("Queue() = %q, want root.jobs", manager.Queue())
			}
		})
	}
}

func TestManagersProducePolicies(t *testing.T) {
	weights := []byte(`{"weights":{"sc-1":1,"sc-2":1}}`)

	tests := []struct {
		name    string
		manager policies.PolicyManager
		params  []byte
		check   func(t *testing.T, policy policies.Policy)
	}{
		{
			name:    TypeUniform,
			manager: NewUniformPolicyManager(),
			check: func(t *testing.T, policy policies.Policy) {
				if _, ok := policy.(*amrmproxy.BroadcastPolicy); !ok {
					t.Errorf("policy type = %T, want *amrmproxy.BroadcastPolicy", policy)
				}
			},
		},
		{
			name:    TypeWeighted,
			manager: NewWeightedPolicyManager(),
			params:  weights,
			check: func(t *testing.T, policy policies.Policy) {
				if _, ok := policy.(*amrmproxy.WeightedPolicy); !ok {
					t.Errorf("policy type = %T, want *amrmproxy.WeightedPolicy", policy)
				}
			},
		},
		{
			name:    TypePriority,
			manager: NewPriorityPolicyManager(),
			params:  weights,
			check: func(t *testing.T, policy policies.Policy) {
				if _, ok := policy.(*amrmproxy.PriorityPolicy); !ok {
					t.Errorf("policy type = %T, want *amrmproxy.PriorityPolicy", policy)
				}
			},
		},
		{
			name:    TypeReject,
			manager: NewRejectPolicyManager(),
			check: func(t *testing.T, policy policies.Policy) {
				if _, ok := policy.(*amrmproxy.RejectPolicy); !ok {
					t.Errorf("policy type = %T, want *amrmproxy.RejectPolicy", policy)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext(t, tt.name, tt.params)
			policy, err := tt.manager.AMRMPolicy(ctx, nil)
			if err != nil {
				t.Fatalf("AMRMPolicy() error = %v", err)
			}
			if policy == nil {
				t.Fatal("AMRMPolicy() returned nil policy")
			}
			tt.check(t, policy)

			// Offering the policy back with the same configuration reuses
			// the instance.
			again, err := tt.manager.AMRMPolicy(ctx, policy)
			if err != nil {
				t.Fatalf("AMRMPolicy() with old policy error = %v", err)
			}
			if again != policy {
				t.Error("AMRMPolicy() did not reuse the previous policy instance")
			}
		})
	}
}

func TestManagerReplacesForeignPolicy(t *testing.T) {
	ctx := newContext(t, TypeUniform, nil)
	manager := NewUniformPolicyManager()

	foreign := amrmproxy.NewRejectPolicy()
	policy, err := manager.AMRMPolicy(ctx, foreign)
	if err != nil {
		t.Fatalf("AMRMPolicy() error = %v", err)
	}
	if _, ok := policy.(*amrmproxy.BroadcastPolicy); !ok {
		t.Fatalf("policy type = %T, want *amrmproxy.BroadcastPolicy", policy)
	}
}

func TestManagerNilContext(t *testing.T) {
	managers := []policies.PolicyManager{
		NewUniformPolicyManager(),
		NewWeightedPolicyManager(),
		NewPriorityPolicyManager(),
		NewRejectPolicyManager(),
	}
	for _, m := range managers {
		policy, err := m.AMRMPolicy(nil, nil)
		if policy != nil {
			t.Errorf("%T returned a policy for a nil context", m)
		}
		if !errors.Is(err, policies.ErrPolicyInitialization) {
			t.Errorf("%T error = %v, want ErrPolicyInitialization", m, err)
		}
	}
}

func TestManagerWrapsPolicyFailure(t *testing.T) {
	ctx := newContext(t, TypeWeighted, []byte("not json"))
	manager := NewWeightedPolicyManager()

	policy, err := manager.AMRMPolicy(ctx, nil)
	if policy != nil {
		t.Error("AMRMPolicy() returned a policy despite malformed params")
	}
	if !errors.Is(err, policies.ErrPolicyInitialization) {
		t.Fatalf("error = %v, want ErrPolicyInitialization", err)
	}

	var initErr *policies.PolicyInitializationError
	if !errors.As(err, &initErr) {
		t.Fatalf("error type = %T, want *PolicyInitializationError", err)
	}
	if initErr.ManagerType != TypeWeighted {
		t.Errorf("ManagerType = %q, want %q", initErr.ManagerType, TypeWeighted)
	}
}
