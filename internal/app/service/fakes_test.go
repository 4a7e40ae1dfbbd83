package service

import (
	"context"
	"database/sql"
	"sync"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
)

// In-memory repository fakes. The solved-item map enforces the same
// uniqueness the database does, so the reward race tests are meaningful.

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []model.Submission
	solved      map[string]model.SolvedItem
	passedRows  []model.Submission

	createErr    error
	markErr      error
	startersFn   func(challengeIDs []string) int
	completersFn func(challengeIDs []string) int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{solved: map[string]model.SolvedItem{}}
}

func solvedKey(userID string, kind model.ItemKind, itemID string) string {
	return userID + "|" + string(kind) + ":" + itemID
}

func (f *fakeSubmissionRepo) CreateSubmission(_ context.Context, _ *sql.Tx, sub *model.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, *sub)
	return nil
}

func (f *fakeSubmissionRepo) ListByUser(_ context.Context, userID string) ([]model.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Submission
	for i := len(f.submissions) - 1; i >= 0; i-- {
		if f.submissions[i].UserID == userID {
			out = append(out, f.submissions[i])
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) ListPassedWithDifficulty(_ context.Context, userID string) ([]model.Submission, error) {
	var out []model.Submission
	for _, s := range f.passedRows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSubmissionRepo) MarkItemSolved(_ context.Context, _ *sql.Tx, solved *model.SolvedItem) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := solvedKey(solved.UserID, solved.ItemKind, solved.ItemID)
	if _, exists := f.solved[key]; exists {
		return common.ErrAlreadySolved
	}
	f.solved[key] = *solved
	return nil
}

func (f *fakeSubmissionRepo) UnmarkItemSolved(_ context.Context, userID string, ref model.ItemRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.solved, solvedKey(userID, ref.Kind, ref.ID))
	return nil
}

func (f *fakeSubmissionRepo) CountDistinctStarters(_ context.Context, challengeIDs []string) (int, error) {
	if f.startersFn != nil {
		return f.startersFn(challengeIDs), nil
	}
	return 0, nil
}

func (f *fakeSubmissionRepo) CountDistinctCompleters(_ context.Context, challengeIDs []string) (int, error) {
	if f.completersFn != nil {
		return f.completersFn(challengeIDs), nil
	}
	return 0, nil
}

func (f *fakeSubmissionRepo) DeleteByUser(_ context.Context, _ *sql.Tx, userID string) error {
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile
	coins    map[string]int

	addCoinsErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]*model.Profile{}, coins: map[string]int{}}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.profiles[profile.UserID]; exists {
		return common.ErrConflict
	}
	f.profiles[profile.UserID] = profile
	f.coins[profile.UserID] = profile.Coins
	return nil
}

func (f *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (*model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *profile
	copied.Coins = f.coins[userID]
	return &copied, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *model.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfileRepo) ListAll(_ context.Context) ([]model.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Profile
	for userID, p := range f.profiles {
		copied := *p
		copied.Coins = f.coins[userID]
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeProfileRepo) AddCoins(_ context.Context, _ *sql.Tx, userID string, coins int) error {
	if f.addCoinsErr != nil {
		return f.addCoinsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.coins[userID] += coins
	return nil
}

func (f *fakeProfileRepo) MaxCoins(_ context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.coins) == 0 {
		return 0, 0, nil
	}
	max := 0
	first := true
	for _, c := range f.coins {
		if first || c > max {
			max = c
			first = false
		}
	}
	holders := 0
	for _, c := range f.coins {
		if c == max {
			holders++
		}
	}
	return max, holders, nil
}

func (f *fakeProfileRepo) DeleteByUserID(_ context.Context, _ *sql.Tx, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.profiles, userID)
	delete(f.coins, userID)
	return nil
}

type fakeProblemRepo struct {
	problems map[string]*model.Problem
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{problems: map[string]*model.Problem{}}
}

func (f *fakeProblemRepo) Create(_ context.Context, problem *model.Problem) error {
	f.problems[problem.ID] = problem
	return nil
}

func (f *fakeProblemRepo) FindByID(_ context.Context, id string) (*model.Problem, error) {
	problem, ok := f.problems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return problem, nil
}

func (f *fakeProblemRepo) List(_ context.Context, limit int) ([]model.Problem, error) {
	var out []model.Problem
	for _, p := range f.problems {
		out = append(out, *p)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeChallengeRepo struct {
	challenges map[string]*model.Challenge
}

func newFakeChallengeRepo() *fakeChallengeRepo {
	return &fakeChallengeRepo{challenges: map[string]*model.Challenge{}}
}

func (f *fakeChallengeRepo) Create(_ context.Context, challenge *model.Challenge) error {
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) FindByID(_ context.Context, id string) (*model.Challenge, error) {
	challenge, ok := f.challenges[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return challenge, nil
}

func (f *fakeChallengeRepo) List(_ context.Context, limit int) ([]model.Challenge, error) {
	var out []model.Challenge
	for _, c := range f.challenges {
		out = append(out, *c)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeChallengeRepo) ListByCompany(_ context.Context, companyID string) ([]model.Challenge, error) {
	var out []model.Challenge
	for _, c := range f.challenges {
		if c.CompanyID == companyID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) ListIDsByCompany(_ context.Context, companyID string) ([]string, error) {
	var out []string
	for _, c := range f.challenges {
		if c.CompanyID == companyID {
			out = append(out, c.ID)
		}
	}
	return out, nil
}

func (f *fakeChallengeRepo) Update(_ context.Context, challenge *model.Challenge) error {
	if _, ok := f.challenges[challenge.ID]; !ok {
		return common.ErrNotFound
	}
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.challenges[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.challenges, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id, hashedPassword string) error {
	user, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	user.HashedPassword = hashedPassword
	return nil
}

func (f *fakeUserRepo) CountByRole(_ context.Context, role string) (int, error) {
	count := 0
	for _, u := range f.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

func (f *fakeUserRepo) ListIDsByRole(_ context.Context, role string) ([]string, error) {
	var out []string
	for id, u := range f.users {
		if u.Role == role {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, _ *sql.Tx, id string) error {
	delete(f.users, id)
	return nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[string]*model.Notification{}}
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) CreateBulk(_ context.Context, notifications []model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range notifications {
		n := notifications[i]
		f.notifications[n.ID] = &n
	}
	return nil
}

func (f *fakeNotificationRepo) FindByID(_ context.Context, id string) (*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipient string, limit int) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Notification
	for _, n := range f.notifications {
		if n.Recipient == recipient {
			out = append(out, *n)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return common.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.Recipient == recipient {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) ClearAll(_ context.Context, recipient string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, n := range f.notifications {
		if n.Recipient == recipient {
			delete(f.notifications, id)
		}
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteByRecipient(_ context.Context, _ *sql.Tx, recipient string) error {
	return f.ClearAll(context.Background(), recipient)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []model.NotificationEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event *model.NotificationEvent) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakePublisher) published() []model.NotificationEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.NotificationEvent(nil), f.events...)
}
