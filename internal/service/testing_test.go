package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"slack-service/internal/events"
	"slack-service/internal/models"
)

// In-memory fakes backing the service tests. They honor the same contracts
// as the gorm repositories: gorm.ErrRecordNotFound on misses and
// gorm.ErrDuplicatedKey on unique index violations.

type store struct {
	nextID uint
	now    time.Time

	users         map[uint]*models.User
	workspaces    map[uint]*models.Workspace
	members       map[uint]*models.Member
	channels      map[uint]*models.Channel
	conversations map[uint]*models.Conversation
	messages      map[uint]*models.Message
	reactions     map[uint]*models.Reaction
}

func newStore() *store {
	return &store{
		now:           time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:         make(map[uint]*models.User),
		workspaces:    make(map[uint]*models.Workspace),
		members:       make(map[uint]*models.Member),
		channels:      make(map[uint]*models.Channel),
		conversations: make(map[uint]*models.Conversation),
		messages:      make(map[uint]*models.Message),
		reactions:     make(map[uint]*models.Reaction),
	}
}

func (s *store) id() uint {
	s.nextID++
	return s.nextID
}

// tick advances the fake clock so created rows order deterministically.
func (s *store) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func uintPtr(v uint) *uint { return &v }

func samePtr(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeUserRepo struct{ s *store }

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.s.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = f.s.id()
	user.CreatedAt = f.s.tick()
	f.s.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := f.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeWorkspaceRepo struct{ s *store }

func (f *fakeWorkspaceRepo) Create(ctx context.Context, workspace *models.Workspace, admin *models.Member, general *models.Channel) error {
	workspace.ID = f.s.id()
	workspace.CreatedAt = f.s.tick()
	f.s.workspaces[workspace.ID] = workspace

	admin.WorkspaceID = workspace.ID
	if err := (&fakeMemberRepo{f.s}).Create(ctx, admin); err != nil {
		return err
	}

	general.WorkspaceID = workspace.ID
	general.ID = f.s.id()
	general.CreatedAt = f.s.tick()
	f.s.channels[general.ID] = general
	return nil
}

func (f *fakeWorkspaceRepo) FindByID(_ context.Context, id uint) (*models.Workspace, error) {
	workspace, ok := f.s.workspaces[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return workspace, nil
}

func (f *fakeWorkspaceRepo) FindByMemberUserID(_ context.Context, userID uint) ([]*models.Workspace, error) {
	var result []*models.Workspace
	for _, member := range f.s.members {
		if member.UserID != userID {
			continue
		}
		if workspace, ok := f.s.workspaces[member.WorkspaceID]; ok {
			result = append(result, workspace)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeWorkspaceRepo) UpdateName(_ context.Context, id uint, name string) error {
	workspace, ok := f.s.workspaces[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	workspace.Name = name
	return nil
}

func (f *fakeWorkspaceRepo) UpdateJoinCode(_ context.Context, id uint, joinCode string) error {
	workspace, ok := f.s.workspaces[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	workspace.JoinCode = joinCode
	return nil
}

func (f *fakeWorkspaceRepo) Delete(_ context.Context, id uint) error {
	for mid, message := range f.s.messages {
		if message.WorkspaceID == id {
			for rid, reaction := range f.s.reactions {
				if reaction.MessageID == mid {
					delete(f.s.reactions, rid)
				}
			}
			delete(f.s.messages, mid)
		}
	}
	for cid, conversation := range f.s.conversations {
		if conversation.WorkspaceID == id {
			delete(f.s.conversations, cid)
		}
	}
	for cid, channel := range f.s.channels {
		if channel.WorkspaceID == id {
			delete(f.s.channels, cid)
		}
	}
	for mid, member := range f.s.members {
		if member.WorkspaceID == id {
			delete(f.s.members, mid)
		}
	}
	delete(f.s.workspaces, id)
	return nil
}

type fakeMemberRepo struct{ s *store }

func (f *fakeMemberRepo) Create(_ context.Context, member *models.Member) error {
	for _, existing := range f.s.members {
		if existing.WorkspaceID == member.WorkspaceID && existing.UserID == member.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	member.ID = f.s.id()
	member.CreatedAt = f.s.tick()
	f.s.members[member.ID] = member
	return nil
}

func (f *fakeMemberRepo) FindByID(_ context.Context, id uint) (*models.Member, error) {
	member, ok := f.s.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (f *fakeMemberRepo) FindByWorkspaceAndUser(_ context.Context, workspaceID, userID uint) (*models.Member, error) {
	for _, member := range f.s.members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberRepo) FindByWorkspaceID(_ context.Context, workspaceID uint) ([]*models.Member, error) {
	var result []*models.Member
	for _, member := range f.s.members {
		if member.WorkspaceID == workspaceID {
			result = append(result, member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeMemberRepo) UpdateRole(_ context.Context, id uint, role string) error {
	member, ok := f.s.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	member.Role = role
	return nil
}

func (f *fakeMemberRepo) Delete(_ context.Context, id uint) error {
	member, ok := f.s.members[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for rid, reaction := range f.s.reactions {
		if reaction.MemberID == id {
			delete(f.s.reactions, rid)
		}
	}
	for mid, message := range f.s.messages {
		if message.MemberID == id {
			delete(f.s.messages, mid)
		}
	}
	for cid, conversation := range f.s.conversations {
		if conversation.WorkspaceID == member.WorkspaceID &&
			(conversation.MemberOneID == id || conversation.MemberTwoID == id) {
			delete(f.s.conversations, cid)
		}
	}
	delete(f.s.members, id)
	return nil
}

type fakeChannelRepo struct{ s *store }

func (f *fakeChannelRepo) Create(_ context.Context, channel *models.Channel) error {
	channel.ID = f.s.id()
	channel.CreatedAt = f.s.tick()
	f.s.channels[channel.ID] = channel
	return nil
}

func (f *fakeChannelRepo) FindByID(_ context.Context, id uint) (*models.Channel, error) {
	channel, ok := f.s.channels[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return channel, nil
}

func (f *fakeChannelRepo) FindByWorkspaceID(_ context.Context, workspaceID uint) ([]*models.Channel, error) {
	var result []*models.Channel
	for _, channel := range f.s.channels {
		if channel.WorkspaceID == workspaceID {
			result = append(result, channel)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeChannelRepo) UpdateName(_ context.Context, id uint, name string) error {
	channel, ok := f.s.channels[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	channel.Name = name
	return nil
}

func (f *fakeChannelRepo) Delete(_ context.Context, id uint) error {
	for mid, message := range f.s.messages {
		if message.ChannelID != nil && *message.ChannelID == id {
			for rid, reaction := range f.s.reactions {
				if reaction.MessageID == mid {
					delete(f.s.reactions, rid)
				}
			}
			delete(f.s.messages, mid)
		}
	}
	delete(f.s.channels, id)
	return nil
}

type fakeConversationRepo struct{ s *store }

func (f *fakeConversationRepo) FindByID(_ context.Context, id uint) (*models.Conversation, error) {
	conversation, ok := f.s.conversations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return conversation, nil
}

func (f *fakeConversationRepo) GetOrCreate(_ context.Context, workspaceID, memberA, memberB uint) (*models.Conversation, error) {
	one, two := models.OrderedPair(memberA, memberB)
	for _, conversation := range f.s.conversations {
		if conversation.WorkspaceID == workspaceID &&
			conversation.MemberOneID == one && conversation.MemberTwoID == two {
			return conversation, nil
		}
	}
	conversation := &models.Conversation{
		WorkspaceID: workspaceID,
		MemberOneID: one,
		MemberTwoID: two,
	}
	conversation.ID = f.s.id()
	conversation.CreatedAt = f.s.tick()
	f.s.conversations[conversation.ID] = conversation
	return conversation, nil
}

type fakeMessageRepo struct{ s *store }

func (f *fakeMessageRepo) Create(_ context.Context, message *models.Message) error {
	message.ID = f.s.id()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = f.s.tick()
	}
	f.s.messages[message.ID] = message
	return nil
}

func (f *fakeMessageRepo) FindByID(_ context.Context, id uint) (*models.Message, error) {
	message, ok := f.s.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return message, nil
}

func (f *fakeMessageRepo) FindFeed(_ context.Context, channelID, parentMessageID, conversationID *uint, limit int, before *int64) ([]*models.Message, error) {
	var result []*models.Message
	for _, message := range f.s.messages {
		if !samePtr(message.ChannelID, channelID) ||
			!samePtr(message.ParentMessageID, parentMessageID) ||
			!samePtr(message.ConversationID, conversationID) {
			continue
		}
		if before != nil && message.CreatedAt.UnixMilli() >= *before {
			continue
		}
		result = append(result, message)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeMessageRepo) FindReplies(_ context.Context, parentMessageID uint) ([]*models.Message, error) {
	var result []*models.Message
	for _, message := range f.s.messages {
		if message.ParentMessageID != nil && *message.ParentMessageID == parentMessageID {
			result = append(result, message)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeMessageRepo) UpdateBody(_ context.Context, id uint, body string, editedAt time.Time) error {
	message, ok := f.s.messages[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	message.Body = body
	message.EditedAt = &editedAt
	return nil
}

func (f *fakeMessageRepo) Delete(_ context.Context, id uint) error {
	for rid, reaction := range f.s.reactions {
		if reaction.MessageID == id {
			delete(f.s.reactions, rid)
		}
	}
	delete(f.s.messages, id)
	return nil
}

type fakeReactionRepo struct{ s *store }

func (f *fakeReactionRepo) FindByMessageID(_ context.Context, messageID uint) ([]*models.Reaction, error) {
	var result []*models.Reaction
	for _, reaction := range f.s.reactions {
		if reaction.MessageID == messageID {
			result = append(result, reaction)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeReactionRepo) Toggle(_ context.Context, messageID, memberID, workspaceID uint, value string) (uint, bool, error) {
	for id, reaction := range f.s.reactions {
		if reaction.MessageID == messageID && reaction.MemberID == memberID && reaction.Value == value {
			delete(f.s.reactions, id)
			return id, false, nil
		}
	}
	reaction := &models.Reaction{
		WorkspaceID: workspaceID,
		MessageID:   messageID,
		MemberID:    memberID,
		Value:       value,
	}
	reaction.ID = f.s.id()
	reaction.CreatedAt = f.s.tick()
	f.s.reactions[reaction.ID] = reaction
	return reaction.ID, true, nil
}

// capturePublisher records invalidations for assertions.
type capturePublisher struct {
	invalidations []events.Invalidation
}

func (p *capturePublisher) Invalidate(_ context.Context, event events.Invalidation) {
	p.invalidations = append(p.invalidations, event)
}

func (p *capturePublisher) last() *events.Invalidation {
	if len(p.invalidations) == 0 {
		return nil
	}
	return &p.invalidations[len(p.invalidations)-1]
}

// fakeImages resolves object keys to predictable URLs.
type fakeImages struct {
	err error
}

func (f *fakeImages) PresignedGetURL(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://files.local/" + key, nil
}

// fixture wires every service against the shared in-memory store.
type fixture struct {
	store     *store
	publisher *capturePublisher
	images    *fakeImages

	userRepo         *fakeUserRepo
	workspaceRepo    *fakeWorkspaceRepo
	memberRepo       *fakeMemberRepo
	channelRepo      *fakeChannelRepo
	conversationRepo *fakeConversationRepo
	messageRepo      *fakeMessageRepo
	reactionRepo     *fakeReactionRepo

	auth          AuthService
	workspaces    WorkspaceService
	members       MemberService
	channels      ChannelService
	conversations ConversationService
	messages      MessageService
	reactions     ReactionService
}

func newFixture() *fixture {
	s := newStore()
	f := &fixture{
		store:            s,
		publisher:        &capturePublisher{},
		images:           &fakeImages{},
		userRepo:         &fakeUserRepo{s},
		workspaceRepo:    &fakeWorkspaceRepo{s},
		memberRepo:       &fakeMemberRepo{s},
		channelRepo:      &fakeChannelRepo{s},
		conversationRepo: &fakeConversationRepo{s},
		messageRepo:      &fakeMessageRepo{s},
		reactionRepo:     &fakeReactionRepo{s},
	}

	guard := NewGuard(f.memberRepo)
	f.auth = NewAuthService(f.userRepo, "test-secret", time.Hour)
	f.workspaces = NewWorkspaceService(f.workspaceRepo, f.memberRepo, f.userRepo, guard, f.publisher)
	f.members = NewMemberService(f.memberRepo, f.userRepo, guard, f.publisher)
	f.channels = NewChannelService(f.channelRepo, guard, f.publisher)
	f.conversations = NewConversationService(f.conversationRepo, f.memberRepo, guard, f.publisher)
	f.messages = NewMessageService(
		f.messageRepo, f.memberRepo, f.userRepo, f.reactionRepo, f.channelRepo, f.conversationRepo,
		guard, f.images, f.publisher,
	)
	f.reactions = NewReactionService(f.reactionRepo, f.messageRepo, guard, f.publisher)
	return f
}

func (f *fixture) addUser(username, email string) *models.User {
	user := &models.User{Username: username, Email: email, Password: "hashed"}
	if err := f.userRepo.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

// addWorkspace seeds a workspace owned by user, returning the workspace,
// its admin membership and the default general channel.
func (f *fixture) addWorkspace(name string, user *models.User) (*models.Workspace, *models.Member, *models.Channel) {
	workspace := &models.Workspace{Name: name, UserID: user.ID, JoinCode: "abc123"}
	admin := &models.Member{UserID: user.ID, Role: models.MemberRoleAdmin}
	general := &models.Channel{Name: "general"}
	if err := f.workspaceRepo.Create(context.Background(), workspace, admin, general); err != nil {
		panic(err)
	}
	return workspace, admin, general
}

func (f *fixture) addMember(workspace *models.Workspace, user *models.User, role string) *models.Member {
	member := &models.Member{WorkspaceID: workspace.ID, UserID: user.ID, Role: role}
	if err := f.memberRepo.Create(context.Background(), member); err != nil {
		panic(err)
	}
	return member
}

func (f *fixture) addMessage(message *models.Message) *models.Message {
	if err := f.messageRepo.Create(context.Background(), message); err != nil {
		panic(err)
	}
	return message
}
