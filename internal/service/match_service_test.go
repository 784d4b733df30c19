package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/mentormatch/internal/dto"
	"anoa.com/mentormatch/internal/model"
	"anoa.com/mentormatch/pkg/apperror"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uint]*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindMentorByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok || user.Role != model.RoleMentor {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindMentors(ctx context.Context, skill, orderBy string) ([]*model.User, error) {
	var mentors []*model.User
	for id := uint(1); id <= uint(len(r.users)); id++ {
		user, ok := r.users[id]
		if !ok || user.Role != model.RoleMentor {
			continue
		}
		if skill != "" && !user.HasSkill(skill) {
			continue
		}
		mentors = append(mentors, user)
	}
	sortMentors(mentors, orderBy)
	return mentors, nil
}

type fakeMatchRepo struct {
	requests map[uint]*model.MatchRequest
	nextID   uint
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{requests: map[uint]*model.MatchRequest{}, nextID: 1}
}

func (r *fakeMatchRepo) Create(ctx context.Context, request *model.MatchRequest) error {
	request.ID = r.nextID
	r.nextID++
	stored := *request
	r.requests[request.ID] = &stored
	return nil
}

func (r *fakeMatchRepo) FindByID(ctx context.Context, id uint) (*model.MatchRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *request
	return &copied, nil
}

func (r *fakeMatchRepo) ListByMentor(ctx context.Context, mentorID uint) ([]*model.MatchRequest, error) {
	var out []*model.MatchRequest
	for id := uint(1); id < r.nextID; id++ {
		if request, ok := r.requests[id]; ok && request.MentorID == mentorID {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByMentee(ctx context.Context, menteeID uint) ([]*model.MatchRequest, error) {
	var out []*model.MatchRequest
	for id := uint(1); id < r.nextID; id++ {
		if request, ok := r.requests[id]; ok && request.MenteeID == menteeID {
			copied := *request
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, id uint, from, to model.MatchStatus) (bool, error) {
	request, ok := r.requests[id]
	if !ok || request.Status != from {
		return false, nil
	}
	request.Status = to
	return true, nil
}

func (r *fakeMatchRepo) HasPendingByMentee(ctx context.Context, menteeID uint) (bool, error) {
	for _, request := range r.requests {
		if request.MenteeID == menteeID && request.Status == model.MatchPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMatchRepo) HasAcceptedByMentor(ctx context.Context, mentorID uint) (bool, error) {
	for _, request := range r.requests {
		if request.MentorID == mentorID && request.Status == model.MatchAccepted {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotifications struct {
	created []*model.Notification
}

func (n *fakeNotifications) Create(ctx context.Context, notification *model.Notification) error {
	n.created = append(n.created, notification)
	return nil
}

func (n *fakeNotifications) List(ctx context.Context, userID uint, limit, offset int) ([]*model.Notification, error) {
	return nil, nil
}

func (n *fakeNotifications) MarkAsRead(ctx context.Context, id, userID uint) error {
	return nil
}

func (n *fakeNotifications) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}

func newMatchFixture() (*fakeUserRepo, *fakeMatchRepo, *fakeNotifications, MatchService) {
	users := &fakeUserRepo{users: map[uint]*model.User{
		1: {ID: 1, Email: "mentor.b@example.com", Role: model.RoleMentor, Name: "Mentor B"},
		2: {ID: 2, Email: "mentee.a@example.com", Role: model.RoleMentee, Name: "Mentee A"},
		3: {ID: 3, Email: "mentor.c@example.com", Role: model.RoleMentor, Name: "Mentor C"},
		4: {ID: 4, Email: "mentee.d@example.com", Role: model.RoleMentee, Name: "Mentee D"},
	}}
	matches := newFakeMatchRepo()
	notifications := &fakeNotifications{}
	svc := NewMatchService(matches, users, notifications, nil)
	return users, matches, notifications, svc
}

func TestCreateMatchRequest(t *testing.T) {
	_, matches, notifications, svc := newMatchFixture()

	info, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "Please mentor me"})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if info.Status != string(model.MatchPending) {
		t.Fatalf("new request status: got %s", info.Status)
	}
	if info.MentorID != 1 || info.MenteeID != 2 {
		t.Fatalf("unexpected parties: %+v", info)
	}

	stored, err := matches.FindByID(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("request was not persisted: %v", err)
	}
	if stored.Message != "Please mentor me" {
		t.Fatalf("unexpected message: %q", stored.Message)
	}

	if len(notifications.created) != 1 || notifications.created[0].UserID != 1 {
		t.Fatalf("mentor should be notified, got %+v", notifications.created)
	}
}

func TestCreateMatchRequestEmptyMessage(t *testing.T) {
	_, matches, _, svc := newMatchFixture()

	for _, message := range []string{"", "   ", "\n\t"} {
		if _, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: message}); !errors.Is(err, apperror.ErrInvalidInput) {
			t.Fatalf("message %q: want validation error, got %v", message, err)
		}
	}

	if len(matches.requests) != 0 {
		t.Fatalf("no request must be created on validation failure, got %d", len(matches.requests))
	}
}

func TestCreateMatchRequestByMentor(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	if _, err := svc.Create(context.Background(), 1, dto.CreateMatchRequest{MentorID: 3, Message: "hi"}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("mentor creating request: want forbidden, got %v", err)
	}
}

func TestCreateMatchRequestUnknownMentor(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	if _, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 99, Message: "hi"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("unknown mentor: want validation error, got %v", err)
	}

	// A mentee is not a valid mentor target either.
	if _, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 4, Message: "hi"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("mentee as mentor target: want validation error, got %v", err)
	}
}

func TestCreateMatchRequestDuplicatePending(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	if _, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "first"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	if _, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 3, Message: "second"}); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second pending request: want conflict, got %v", err)
	}
}

func TestAcceptThenCancelConflicts(t *testing.T) {
	_, matches, _, svc := newMatchFixture()

	info, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "Please mentor me"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	accepted, err := svc.Resolve(context.Background(), 1, info.ID, model.ActionAccept)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != string(model.MatchAccepted) {
		t.Fatalf("status after accept: %s", accepted.Status)
	}

	if _, err := svc.Resolve(context.Background(), 2, info.ID, model.ActionCancel); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("cancel after accept: want conflict, got %v", err)
	}

	stored, _ := matches.FindByID(context.Background(), info.ID)
	if stored.Status != model.MatchAccepted {
		t.Fatalf("failed cancel must not change status, got %s", stored.Status)
	}
}

func TestResolveWrongRole(t *testing.T) {
	_, matches, _, svc := newMatchFixture()

	info, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The mentee cannot accept or reject, the mentor cannot cancel.
	if _, err := svc.Resolve(context.Background(), 2, info.ID, model.ActionAccept); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("mentee accept: want forbidden, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), 2, info.ID, model.ActionReject); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("mentee reject: want forbidden, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), 1, info.ID, model.ActionCancel); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("mentor cancel: want forbidden, got %v", err)
	}

	stored, _ := matches.FindByID(context.Background(), info.ID)
	if stored.Status != model.MatchPending {
		t.Fatalf("illegal attempts must not change status, got %s", stored.Status)
	}
}

func TestResolveNotOwner(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	info, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mentor C is not the addressed mentor.
	if _, err := svc.Resolve(context.Background(), 3, info.ID, model.ActionAccept); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("foreign mentor accept: want forbidden, got %v", err)
	}

	// Mentee D is not the requesting mentee.
	if _, err := svc.Resolve(context.Background(), 4, info.ID, model.ActionCancel); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("foreign mentee cancel: want forbidden, got %v", err)
	}
}

func TestAcceptSecondMenteeConflicts(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	first, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "from A"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(context.Background(), 4, dto.CreateMatchRequest{MentorID: 1, Message: "from D"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), 1, first.ID, model.ActionAccept); err != nil {
		t.Fatalf("accept first: %v", err)
	}

	if _, err := svc.Resolve(context.Background(), 1, second.ID, model.ActionAccept); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("accepting a second mentee: want conflict, got %v", err)
	}

	// Rejecting the remaining request is still allowed.
	if _, err := svc.Resolve(context.Background(), 1, second.ID, model.ActionReject); err != nil {
		t.Fatalf("reject second: %v", err)
	}
}

func TestResolveMissingRequest(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	if _, err := svc.Resolve(context.Background(), 1, 42, model.ActionAccept); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("missing request: want not found, got %v", err)
	}
}

func TestListIncomingOutgoingPartition(t *testing.T) {
	_, _, _, svc := newMatchFixture()

	toB, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "to B"})
	if err != nil {
		t.Fatalf("create to B: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), 1, toB.ID, model.ActionReject); err != nil {
		t.Fatalf("reject to B: %v", err)
	}
	if _, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 3, Message: "to C"}); err != nil {
		t.Fatalf("create to C: %v", err)
	}

	outgoing, err := svc.ListOutgoing(context.Background(), 2)
	if err != nil {
		t.Fatalf("outgoing: %v", err)
	}
	if len(outgoing) != 2 {
		t.Fatalf("mentee A outgoing: got %d requests", len(outgoing))
	}

	incoming, err := svc.ListIncoming(context.Background(), 1)
	if err != nil {
		t.Fatalf("incoming: %v", err)
	}
	if len(incoming) != 1 || incoming[0].Message != "to B" {
		t.Fatalf("mentor B incoming: got %+v", incoming)
	}
}

func TestResolveNotificationTargets(t *testing.T) {
	_, _, notifications, svc := newMatchFixture()

	info, err := svc.Create(context.Background(), 2, dto.CreateMatchRequest{MentorID: 1, Message: "hello"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), 1, info.ID, model.ActionAccept); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if len(notifications.created) != 2 {
		t.Fatalf("want 2 notifications, got %d", len(notifications.created))
	}
	if notifications.created[1].UserID != 2 || notifications.created[1].Type != model.NotificationRequestAccepted {
		t.Fatalf("acceptance must notify the mentee, got %+v", notifications.created[1])
	}
}
