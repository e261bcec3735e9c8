package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Kiransoodyall03/nightlife-app-sub000/apperrors"
	"github.com/Kiransoodyall03/nightlife-app-sub000/models"
)

// testEnv wires the full service graph over one in-memory store, the same
// shape main.go builds in production.
type testEnv struct {
	store   *memStore
	invites *InviteService
	groups  *GroupService
	active  *ActiveGroupService
	filters *FilterService
	matches *MatchService
	swipes  *SwipeService
}

func newTestEnv() *testEnv {
	store := newMemStore()
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	invites := &InviteService{Store: store}
	active := &ActiveGroupService{Store: store}
	matches := &MatchService{Store: store, Logger: quiet}
	return &testEnv{
		store:   store,
		invites: invites,
		groups:  &GroupService{Store: store, Invites: invites},
		active:  active,
		filters: &FilterService{Store: store, ActiveGroups: active},
		matches: matches,
		swipes: &SwipeService{
			Store:        store,
			ActiveGroups: active,
			Matches:      matches,
			Limiter:      NewSwipeRateLimiter(0, 1),
			Logger:       quiet,
		},
	}
}

func (e *testEnv) mustCreateGroup(t *testing.T, ownerID, name string, categories []string) *models.Group {
	t.Helper()
	group, err := e.groups.CreateGroup(context.Background(), ownerID, name, categories, "")
	if err != nil {
		t.Fatalf("CreateGroup(%s, %s): %v", ownerID, name, err)
	}
	return group
}

func (e *testEnv) mustJoin(t *testing.T, userID, code string) *models.Group {
	t.Helper()
	group, err := e.groups.JoinGroupByCode(context.Background(), userID, code)
	if err != nil {
		t.Fatalf("JoinGroupByCode(%s, %s): %v", userID, code, err)
	}
	return group
}

func (e *testEnv) mustActivate(t *testing.T, userID, groupID string) {
	t.Helper()
	on, err := e.active.Toggle(context.Background(), userID, groupID)
	if err != nil {
		t.Fatalf("Toggle(%s, %s): %v", userID, groupID, err)
	}
	if !on {
		t.Fatalf("Toggle(%s, %s) = false, want activation", userID, groupID)
	}
}

func (e *testEnv) profile(t *testing.T, userID string) *models.UserProfile {
	t.Helper()
	profile, err := getUserProfile(context.Background(), e.store, userID)
	if err != nil {
		t.Fatalf("getUserProfile(%s): %v", userID, err)
	}
	return profile
}

func wantKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %v error, got nil", kind)
	}
	if !apperrors.IsKind(err, kind) {
		t.Fatalf("want %v error, got %v (%v)", kind, apperrors.KindOf(err), err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
