package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/repository"
)

var errWriteFailed = errors.New("write failed")

// memStore is an in-memory stand-in for the postgres repositories. A single
// mutex plays the role of the row locks taken by the real transactions.
type memStore struct {
	mu            sync.Mutex
	users         map[string]domain.User
	hackathons    map[string]domain.Hackathon
	teams         map[string]domain.Team
	notifications []domain.Notification
	interests     map[string]domain.Interest

	failRecipients map[string]bool
	takenCodes     int
}

func newMemStore() *memStore {
	return &memStore{
		users:          map[string]domain.User{},
		hackathons:     map[string]domain.Hackathon{},
		teams:          map[string]domain.Team{},
		interests:      map[string]domain.Interest{},
		failRecipients: map[string]bool{},
	}
}

func cloneUser(u domain.User) domain.User {
	u.HackathonParticipation = maps.Clone(u.HackathonParticipation)
	u.Skills = slices.Clone(u.Skills)
	return u
}

func cloneTeam(t domain.Team) domain.Team {
	t.Members = slices.Clone(t.Members)
	return t
}

func (m *memStore) addUser(id, name string, role domain.Role) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	u := domain.User{ID: id, Name: name, Email: id + "@example.com", Role: role, HackathonParticipation: map[string]domain.Participation{}}
	m.users[id] = u
	return u
}

func (m *memStore) addHackathon(id, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hackathons[id] = domain.Hackathon{ID: id, Title: title}
}

func (m *memStore) user(id string) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	return cloneUser(m.users[id])
}

func (m *memStore) team(id string) (domain.Team, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.teams[id]
	return cloneTeam(t), ok
}

func (m *memStore) inbox(recipientID string) []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Notification
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

type memTeamRepo struct{ *memStore }

func (r memTeamRepo) Create(_ context.Context, team domain.Team) (domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.teams {
		if t.HackathonID == team.HackathonID && t.TeamName == team.TeamName {
			return domain.Team{}, repository.ErrTeamNameTaken
		}
	}
	if r.takenCodes > 0 {
		r.takenCodes--
		return domain.Team{}, repository.ErrTeamCodeTaken
	}

	creator, ok := r.users[team.CreatedBy]
	if !ok {
		return domain.Team{}, repository.ErrUserNotFound
	}
	creator = cloneUser(creator)
	if err := domain.ApplyCreate(&team, &creator); err != nil {
		return domain.Team{}, err
	}

	r.teams[team.ID] = cloneTeam(team)
	r.users[creator.ID] = creator
	return team, nil
}

func (r memTeamRepo) lockTeam(teamID, hackathonID string) (domain.Team, error) {
	t, ok := r.teams[teamID]
	if !ok || t.HackathonID != hackathonID {
		return domain.Team{}, repository.ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

func (r memTeamRepo) Join(_ context.Context, teamID, hackathonID, userID string, at time.Time) (domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, err := r.lockTeam(teamID, hackathonID)
	if err != nil {
		return domain.Team{}, err
	}
	user, ok := r.users[userID]
	if !ok {
		return domain.Team{}, repository.ErrUserNotFound
	}
	user = cloneUser(user)

	if err = domain.ApplyJoin(&team, &user, at); err != nil {
		return domain.Team{}, err
	}

	r.teams[team.ID] = cloneTeam(team)
	r.users[user.ID] = user
	return team, nil
}

func (r memTeamRepo) Leave(_ context.Context, teamID, hackathonID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user = cloneUser(user)

	team, err := r.lockTeam(teamID, hackathonID)
	if err != nil {
		if user.ClearParticipation(hackathonID, teamID) {
			r.users[user.ID] = user
		}
		return nil
	}

	changed, err := domain.ApplyLeave(&team, &user)
	if err != nil || !changed {
		return err
	}

	r.teams[team.ID] = team
	r.users[user.ID] = user
	return nil
}

func (r memTeamRepo) Delete(_ context.Context, teamID, hackathonID, userID string) (domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	team, err := r.lockTeam(teamID, hackathonID)
	if err != nil {
		return domain.Team{}, err
	}
	if team.CreatedBy != userID {
		return domain.Team{}, domain.ErrNotCreator
	}

	members := make([]*domain.User, 0, len(team.Members))
	for _, id := range team.Members {
		if u, ok := r.users[id]; ok {
			u = cloneUser(u)
			members = append(members, &u)
		}
	}
	changed, err := domain.ApplyDelete(team, userID, members)
	if err != nil {
		return domain.Team{}, err
	}
	for _, u := range changed {
		r.users[u.ID] = *u
	}
	delete(r.teams, team.ID)

	return team, nil
}

func (r memTeamRepo) FindByID(_ context.Context, id string) (domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.teams[id]
	if !ok {
		return domain.Team{}, repository.ErrTeamNotFound
	}
	return cloneTeam(t), nil
}

func (r memTeamRepo) FindByCode(_ context.Context, hackathonID, code string) (domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.teams {
		if t.HackathonID == hackathonID && t.TeamCode == code {
			return cloneTeam(t), nil
		}
	}
	return domain.Team{}, repository.ErrTeamNotFound
}

func (r memTeamRepo) FindByHackathon(_ context.Context, hackathonID string) ([]domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	teams := []domain.Team{}
	for _, t := range r.teams {
		if t.HackathonID == hackathonID {
			teams = append(teams, cloneTeam(t))
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamName < teams[j].TeamName })
	return teams, nil
}

func (r memTeamRepo) FindJoinable(ctx context.Context, hackathonID string) ([]domain.Team, error) {
	all, _ := r.FindByHackathon(ctx, hackathonID)
	joinable := []domain.Team{}
	for _, t := range all {
		if !t.IsFull() {
			joinable = append(joinable, t)
		}
	}
	return joinable, nil
}

type memUserRepo struct{ *memStore }

func (r memUserRepo) FindByID(_ context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r memUserRepo) FindByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := []domain.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, cloneUser(u))
		}
	}
	return users, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (r memUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return user, nil
}

func (r memUserRepo) FindIDsByRole(_ context.Context, role domain.Role) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := []string{}
	for id, u := range r.users {
		if u.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r memUserRepo) UpdateProfile(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.HackathonParticipation = current.HackathonParticipation
	r.users[user.ID] = cloneUser(user)
	return nil
}

type memHackathonRepo struct{ *memStore }

func (r memHackathonRepo) Create(_ context.Context, h domain.Hackathon) (domain.Hackathon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hackathons[h.ID] = h
	return h, nil
}

func (r memHackathonRepo) FindAll(_ context.Context) ([]domain.Hackathon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Collect(maps.Values(r.hackathons)), nil
}

func (r memHackathonRepo) FindByID(_ context.Context, id string) (domain.Hackathon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.hackathons[id]
	if !ok {
		return domain.Hackathon{}, repository.ErrHackathonNotFound
	}
	return h, nil
}

type memNotificationRepo struct{ *memStore }

func (r memNotificationRepo) Create(_ context.Context, n domain.Notification) (domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failRecipients[n.RecipientID] {
		return domain.Notification{}, errWriteFailed
	}
	if n.Type == domain.NotificationJoinRequest && r.pendingJoinRequest(n.RecipientID, n.TeamID, n.SenderID) {
		return domain.Notification{}, repository.ErrJoinRequestPending
	}
	r.notifications = append(r.notifications, n)
	return n, nil
}

func (r memNotificationRepo) pendingJoinRequest(recipientID, teamID, senderID string) bool {
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && n.TeamID == teamID && n.SenderID == senderID &&
			n.Type == domain.NotificationJoinRequest && n.Status == domain.StatusPending {
			return true
		}
	}
	return false
}

func (r memNotificationRepo) FindByID(_ context.Context, recipientID, id string) (domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			return n, nil
		}
	}
	return domain.Notification{}, repository.ErrNotificationNotFound
}

func (r memNotificationRepo) HasPendingJoinRequest(_ context.Context, recipientID, teamID, senderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.pendingJoinRequest(recipientID, teamID, senderID), nil
}

func (r memNotificationRepo) FindByRecipient(_ context.Context, recipientID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Notification{}
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].RecipientID == recipientID {
			out = append(out, r.notifications[i])
		}
	}
	return out, nil
}

func (r memNotificationRepo) UpdateStatus(_ context.Context, n domain.Notification, from domain.NotificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, cur := range r.notifications {
		if cur.ID != n.ID || cur.RecipientID != n.RecipientID {
			continue
		}
		if cur.Status != from {
			return repository.ErrStatusChanged
		}
		r.notifications[i] = n
		return nil
	}
	return repository.ErrNotificationNotFound
}

func (r memNotificationRepo) ResolvePendingInvites(_ context.Context, recipientID, teamID string, status domain.NotificationStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var updated int64
	for i, n := range r.notifications {
		if n.RecipientID == recipientID && n.TeamID == teamID &&
			n.Type == domain.NotificationTeamInvite && n.Status == domain.StatusPending {
			r.notifications[i].Status = status
			updated++
		}
	}
	return updated, nil
}

type memInterestRepo struct{ *memStore }

func interestKey(hackathonID, userID string) string { return hackathonID + "/" + userID }

func (r memInterestRepo) MarkInterested(_ context.Context, hackathonID, userID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in := r.interests[interestKey(hackathonID, userID)]
	in.HackathonID, in.UserID, in.Name, in.Interested = hackathonID, userID, name, true
	r.interests[interestKey(hackathonID, userID)] = in
	return nil
}

func (r memInterestRepo) FindInterested(_ context.Context, hackathonID string) ([]domain.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Interest{}
	for _, in := range r.interests {
		if in.HackathonID == hackathonID && in.Interested {
			out = append(out, in)
		}
	}
	return out, nil
}

func (r memInterestRepo) Find(_ context.Context, hackathonID, userID string) (domain.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.interests[interestKey(hackathonID, userID)]
	if !ok {
		return domain.Interest{HackathonID: hackathonID, UserID: userID, Invites: []domain.TeamInvite{}}, nil
	}
	in.Invites = slices.Clone(in.Invites)
	return in, nil
}

func (r memInterestRepo) ClearInterested(_ context.Context, hackathonID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if in, ok := r.interests[interestKey(hackathonID, userID)]; ok {
		in.Interested = false
		r.interests[interestKey(hackathonID, userID)] = in
	}
	return nil
}

func (r memInterestRepo) Update(_ context.Context, hackathonID, userID string, fn func(*domain.Interest) error) (domain.Interest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.interests[interestKey(hackathonID, userID)]
	if !ok {
		in = domain.Interest{HackathonID: hackathonID, UserID: userID}
	}
	in.Invites = slices.Clone(in.Invites)
	if err := fn(&in); err != nil {
		return domain.Interest{}, err
	}
	r.interests[interestKey(hackathonID, userID)] = in
	return in, nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.Notification
}

func (p *recordingPublisher) Publish(n domain.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.published = append(p.published, n)
}

type fixture struct {
	store     *memStore
	teams     *TeamService
	notifs    *NotificationService
	users     *UserService
	publisher *recordingPublisher
}

func newFixture() *fixture {
	store := newMemStore()
	store.addHackathon("hack-1", "Spring Hack")

	publisher := &recordingPublisher{}
	notifs := NewNotificationService(memNotificationRepo{store}, memInterestRepo{store}, publisher)
	teams := NewTeamService(memTeamRepo{store}, memUserRepo{store}, memHackathonRepo{store}, notifs, 3)

	return &fixture{
		store:     store,
		teams:     teams,
		notifs:    notifs,
		users:     NewUserService(memUserRepo{store}),
		publisher: publisher,
	}
}
