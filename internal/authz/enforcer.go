// Package authz decides whether a role may perform an action on a resource.
//
// The rules live in an embedded casbin model and policy table. Decide is a
// pure function of (role, resource, action, ownership); it never touches
// the request or the database.
package authz

import (
	_ "embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Subjects that are not user roles.
const (
	SubjectAnonymous = "anonymous"
	SubjectOwner     = "owner"
)

type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"
	ResourceMe       Resource = "me"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ActionFor maps an HTTP method onto a policy action. Safe methods read.
func ActionFor(method string) Action {
	switch method {
	case http.MethodPost:
		return ActionCreate
	case http.MethodPut, http.MethodPatch:
		return ActionUpdate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}

type Decision int

const (
	Allow Decision = iota
	Unauthorized
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Unauthorized:
		return "unauthorized"
	default:
		return "forbidden"
	}
}

// Request describes one access attempt. An empty Role means anonymous.
type Request struct {
	Role     string
	Resource Resource
	Action   Action
	IsOwner  bool
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: enforcer}, nil
}

// MustNewEnforcer is NewEnforcer for callers that cannot continue without a policy.
func MustNewEnforcer() *Enforcer {
	e, err := NewEnforcer()
	if err != nil {
		panic(err)
	}
	return e
}

// Decide returns Allow when the role, or ownership, grants the action.
// Denials are Unauthorized for anonymous callers and Forbidden otherwise.
func (e *Enforcer) Decide(req Request) Decision {
	role := req.Role
	if role == "" {
		role = SubjectAnonymous
	}

	if e.allowed(role, req.Resource, req.Action) {
		return Allow
	}
	if role != SubjectAnonymous && req.IsOwner && e.allowed(SubjectOwner, req.Resource, req.Action) {
		return Allow
	}
	if role == SubjectAnonymous {
		return Unauthorized
	}
	return Forbidden
}

func (e *Enforcer) allowed(subject string, resource Resource, action Action) bool {
	ok, err := e.enforcer.Enforce(subject, string(resource), string(action))
	// an evaluation error denies
	return err == nil && ok
}

// loadPolicy parses the policy CSV and loads it into the enforcer.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch parts[0] {
		case "p":
			if len(parts) != 4 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case "g":
			if len(parts) != 3 {
				return fmt.Errorf("malformed grouping line %q", line)
			}
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		default:
			return fmt.Errorf("unknown policy type %q", parts[0])
		}
	}
	return nil
}
