package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/htmf/hackathon-api/internal/domain"
	"github.com/htmf/hackathon-api/internal/metrics"
	"github.com/htmf/hackathon-api/internal/repository"
)

var (
	ErrTeamNotFound       = repository.ErrTeamNotFound
	ErrTeamNameTaken      = repository.ErrTeamNameTaken
	ErrCodeNotFound       = domain.ErrCodeNotFound
	ErrTeamFull           = domain.ErrTeamFull
	ErrAlreadyOnTeam      = domain.ErrAlreadyOnTeam
	ErrCreatorCannotLeave = domain.ErrCreatorCannotLeave
	ErrNotCreator         = domain.ErrNotCreator
	ErrNotTeamMember      = domain.ErrNotTeamMember
	ErrEmptyTeamName      = domain.ErrEmptyTeamName
)

const defaultCodeAttempts = 5

type TeamRepository interface {
	Create(ctx context.Context, team domain.Team) (domain.Team, error)
	Join(ctx context.Context, teamID, hackathonID, userID string, at time.Time) (domain.Team, error)
	Leave(ctx context.Context, teamID, hackathonID, userID string) error
	Delete(ctx context.Context, teamID, hackathonID, userID string) (domain.Team, error)
	FindByID(ctx context.Context, id string) (domain.Team, error)
	FindByCode(ctx context.Context, hackathonID, code string) (domain.Team, error)
	FindByHackathon(ctx context.Context, hackathonID string) ([]domain.Team, error)
	FindJoinable(ctx context.Context, hackathonID string) ([]domain.Team, error)
}

type TeamUserRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.User, error)
}

type TeamHackathonRepository interface {
	FindByID(ctx context.Context, id string) (domain.Hackathon, error)
}

// TeamNotifier is the part of the notification center the team flows
// depend on.
type TeamNotifier interface {
	SendTeamDeletionNotification(ctx context.Context, memberIDs []string, leaderName, teamName, hackathonTitle string) ([]string, error)
	GetNotification(ctx context.Context, recipientID, id string) (domain.Notification, error)
	UpdateJoinRequestStatus(ctx context.Context, recipientID, id, newStatus string) (domain.Notification, error)
	PendingInvite(ctx context.Context, hackathonID, teamID, userID string) (domain.TeamInvite, bool, error)
	ResolveInvite(ctx context.Context, hackathonID, teamID, userID string, status domain.InviteStatus) error
	ClearInterest(ctx context.Context, hackathonID, userID string) error
}

type TeamService struct {
	repo         TeamRepository
	users        TeamUserRepository
	hackathons   TeamHackathonRepository
	notifier     TeamNotifier
	codeAttempts int
	now          func() time.Time
	newID        func() string
	newCode      func() (string, error)
}

func NewTeamService(
	repo TeamRepository,
	users TeamUserRepository,
	hackathons TeamHackathonRepository,
	notifier TeamNotifier,
	codeAttempts int,
) *TeamService {
	if codeAttempts <= 0 {
		codeAttempts = defaultCodeAttempts
	}

	return &TeamService{
		repo:         repo,
		users:        users,
		hackathons:   hackathons,
		notifier:     notifier,
		codeAttempts: codeAttempts,
		now:          time.Now,
		newID:        uuid.NewString,
		newCode:      domain.GenerateTeamCode,
	}
}

// CreateTeam creates a team with userID as its only member and returns the
// new team. A join code collision is retried with a fresh code.
func (s *TeamService) CreateTeam(ctx context.Context, hackathonID, userID, teamName, creatorName string) (team domain.Team, err error) {
	defer func(start time.Time) { metrics.ObserveTeamOp("create", start, err) }(time.Now())

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return domain.Team{}, ErrEmptyTeamName
	}

	if _, err = s.hackathons.FindByID(ctx, hackathonID); err != nil {
		return domain.Team{}, fmt.Errorf("s.hackathons.FindByID -> %w", err)
	}

	for attempt := 1; ; attempt++ {
		var code string
		if code, err = s.newCode(); err != nil {
			return domain.Team{}, fmt.Errorf("s.newCode -> %w", err)
		}

		t := domain.NewTeam(s.newID(), hackathonID, userID, creatorName, teamName, code, s.now().UTC())
		team, err = s.repo.Create(ctx, t)
		if err == nil {
			return team, nil
		}
		if !errors.Is(err, repository.ErrTeamCodeTaken) || attempt >= s.codeAttempts {
			return domain.Team{}, fmt.Errorf("s.repo.Create -> %w", err)
		}

		zap.L().Debug("team code collision, retrying", zap.String("hackathon_id", hackathonID), zap.Int("attempt", attempt))
	}
}

func (s *TeamService) JoinTeam(ctx context.Context, teamID, hackathonID, userID string) (team domain.Team, err error) {
	defer func(start time.Time) { metrics.ObserveTeamOp("join", start, err) }(time.Now())

	team, err = s.repo.Join(ctx, teamID, hackathonID, userID, s.now().UTC())
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.Join -> %w", err)
	}

	if err := s.notifier.ClearInterest(ctx, hackathonID, userID); err != nil {
		zap.L().Warn("clearing interest after join failed",
			zap.String("hackathon_id", hackathonID), zap.String("user_id", userID), zap.Error(err))
	}

	return team, nil
}

// JoinTeamByCode resolves the join code and joins the team. The full check
// here only saves a transaction; JoinTeam enforces capacity.
func (s *TeamService) JoinTeamByCode(ctx context.Context, code, hackathonID, userID string) (domain.Team, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !domain.IsTeamCode(code) {
		return domain.Team{}, ErrCodeNotFound
	}

	team, err := s.repo.FindByCode(ctx, hackathonID, code)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return domain.Team{}, ErrCodeNotFound
		}
		return domain.Team{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}
	if team.IsFull() {
		return domain.Team{}, ErrTeamFull
	}

	return s.JoinTeam(ctx, team.ID, hackathonID, userID)
}

func (s *TeamService) LeaveTeam(ctx context.Context, teamID, hackathonID, userID string) (err error) {
	defer func(start time.Time) { metrics.ObserveTeamOp("leave", start, err) }(time.Now())

	if err = s.repo.Leave(ctx, teamID, hackathonID, userID); err != nil {
		return fmt.Errorf("s.repo.Leave -> %w", err)
	}

	return nil
}

// DeleteTeam deletes the team and clears its members' participation, then
// tells the former members. Notification failures are logged only.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID, hackathonID, userID string) (err error) {
	defer func(start time.Time) { metrics.ObserveTeamOp("delete", start, err) }(time.Now())

	team, err := s.repo.Delete(ctx, teamID, hackathonID, userID)
	if err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.notifyDeletion(context.WithoutCancel(ctx), team)

	return nil
}

func (s *TeamService) notifyDeletion(ctx context.Context, team domain.Team) {
	recipients := make([]string, 0, len(team.Members))
	for _, id := range team.Members {
		if id != team.CreatedBy {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	title := team.HackathonID
	if h, err := s.hackathons.FindByID(ctx, team.HackathonID); err == nil {
		title = h.Title
	}

	ids, err := s.notifier.SendTeamDeletionNotification(ctx, recipients, team.CreatedByName, team.TeamName, title)
	if err != nil {
		zap.L().Error("team deletion notification failed",
			zap.String("team_id", team.ID),
			zap.Int("sent", len(ids)),
			zap.Int("recipients", len(recipients)),
			zap.Error(err))
	}
}

func (s *TeamService) GetTeam(ctx context.Context, id string) (domain.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Team{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context, hackathonID string) ([]domain.Team, error) {
	teams, err := s.repo.FindByHackathon(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByHackathon -> %w", err)
	}

	return teams, nil
}

func (s *TeamService) GetJoinableTeams(ctx context.Context, hackathonID string) ([]domain.Team, error) {
	teams, err := s.repo.FindJoinable(ctx, hackathonID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindJoinable -> %w", err)
	}

	return teams, nil
}

func (s *TeamService) FetchTeamMembers(ctx context.Context, memberIDs []string) ([]domain.MemberSummary, error) {
	if len(memberIDs) == 0 {
		return []domain.MemberSummary{}, nil
	}

	users, err := s.users.FindByIDs(ctx, memberIDs)
	if err != nil {
		return nil, fmt.Errorf("s.users.FindByIDs -> %w", err)
	}

	members := make([]domain.MemberSummary, 0, len(users))
	for _, u := range users {
		members = append(members, u.Summary())
	}

	return members, nil
}

// ApproveJoinRequest joins the sender to the team and only then marks the
// request approved. When the join fails the request stays pending.
func (s *TeamService) ApproveJoinRequest(ctx context.Context, recipientID, notificationID string) (domain.Notification, error) {
	n, err := s.notifier.GetNotification(ctx, recipientID, notificationID)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.notifier.GetNotification -> %w", err)
	}
	if n.Type != domain.NotificationJoinRequest || n.Status != domain.StatusPending {
		return domain.Notification{}, fmt.Errorf("%s %s cannot be approved: %w", n.Type, n.Status, ErrInvalidTransition)
	}

	if err = s.joinUnlessMember(ctx, n.TeamID, n.HackathonID, n.SenderID); err != nil {
		return domain.Notification{}, err
	}

	n, err = s.notifier.UpdateJoinRequestStatus(ctx, recipientID, notificationID, string(domain.StatusApproved))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.notifier.UpdateJoinRequestStatus -> %w", err)
	}

	return n, nil
}

func (s *TeamService) DeclineJoinRequest(ctx context.Context, recipientID, notificationID string) (domain.Notification, error) {
	n, err := s.notifier.UpdateJoinRequestStatus(ctx, recipientID, notificationID, string(domain.StatusDeclined))
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.notifier.UpdateJoinRequestStatus -> %w", err)
	}

	return n, nil
}

// RespondToInvite answers the pending invite from teamID. Accepting joins
// the team first; the invite is only resolved once the join succeeded.
func (s *TeamService) RespondToInvite(ctx context.Context, hackathonID, teamID, userID, response string) error {
	status, err := domain.ParseInviteResponse(response)
	if err != nil {
		return err
	}

	if _, ok, err := s.notifier.PendingInvite(ctx, hackathonID, teamID, userID); err != nil {
		return fmt.Errorf("s.notifier.PendingInvite -> %w", err)
	} else if !ok {
		return ErrInviteNotFound
	}

	if status == domain.InviteAccepted {
		if err = s.joinUnlessMember(ctx, teamID, hackathonID, userID); err != nil {
			return err
		}
	}

	if err = s.notifier.ResolveInvite(ctx, hackathonID, teamID, userID, status); err != nil {
		return fmt.Errorf("s.notifier.ResolveInvite -> %w", err)
	}

	return nil
}

// joinUnlessMember joins userID to teamID. A user whose participation for the
// hackathon already points at teamID counts as joined.
func (s *TeamService) joinUnlessMember(ctx context.Context, teamID, hackathonID, userID string) error {
	_, err := s.JoinTeam(ctx, teamID, hackathonID, userID)
	if err == nil || !errors.Is(err, domain.ErrAlreadyParticipating) {
		return err
	}

	users, findErr := s.users.FindByIDs(ctx, []string{userID})
	if findErr != nil {
		return fmt.Errorf("s.users.FindByIDs -> %w", findErr)
	}
	for _, u := range users {
		if p, ok := u.ParticipationFor(hackathonID); ok && p.TeamID == teamID {
			return nil
		}
	}

	return err
}
