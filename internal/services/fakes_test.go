package services

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"flammebot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCatalogRepo is an in-memory GuildConfigRepository for tests.
type fakeCatalogRepo struct {
	cfgs    map[string]*domain.GuildConfig
	loadErr error
	saveErr error
	saves   int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{cfgs: make(map[string]*domain.GuildConfig)}
}

// Load returns a fresh copy of the stored configs, like the file-backed
// repository which decodes a new document on every call.
func (f *fakeCatalogRepo) Load(ctx context.Context) (map[string]*domain.GuildConfig, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make(map[string]*domain.GuildConfig, len(f.cfgs))
	for id, cfg := range f.cfgs {
		cp := *cfg
		cp.Events = make(map[string]*domain.EventDefinition, len(cfg.Events))
		for k, ev := range cfg.Events {
			cp.Events[k] = ev
		}
		out[id] = &cp
	}
	return out, nil
}

func (f *fakeCatalogRepo) Save(ctx context.Context, cfgs map[string]*domain.GuildConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cfgs = cfgs
	f.saves++
	return nil
}

// fakePostLogRepo is an in-memory PostLogRepository for tests.
type fakePostLogRepo struct {
	log     domain.DedupLog
	loadErr error
	saveErr error
	saves   int
}

func newFakePostLogRepo() *fakePostLogRepo {
	return &fakePostLogRepo{log: domain.DedupLog{}}
}

func (f *fakePostLogRepo) Load(ctx context.Context) (domain.DedupLog, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.log, nil
}

func (f *fakePostLogRepo) Save(ctx context.Context, log domain.DedupLog) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.log = log
	f.saves++
	return nil
}

// fakeRSVPStoreRepo is an in-memory RSVPStoreRepository for tests.
type fakeRSVPStoreRepo struct {
	store   map[string]*domain.RSVPEntry
	loadErr error
	saveErr error
}

func newFakeRSVPStoreRepo() *fakeRSVPStoreRepo {
	return &fakeRSVPStoreRepo{store: make(map[string]*domain.RSVPEntry)}
}

func (f *fakeRSVPStoreRepo) Load(ctx context.Context) (map[string]*domain.RSVPEntry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.store, nil
}

func (f *fakeRSVPStoreRepo) Save(ctx context.Context, store map[string]*domain.RSVPEntry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.store = store
	return nil
}

// fakeRSVPConfigRepo is an in-memory RSVPConfigRepository for tests.
type fakeRSVPConfigRepo struct {
	cfgs    map[string]*domain.RoleLabelConfig
	loadErr error
	saveErr error
}

func newFakeRSVPConfigRepo() *fakeRSVPConfigRepo {
	return &fakeRSVPConfigRepo{cfgs: make(map[string]*domain.RoleLabelConfig)}
}

func (f *fakeRSVPConfigRepo) Load(ctx context.Context) (map[string]*domain.RoleLabelConfig, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.cfgs, nil
}

func (f *fakeRSVPConfigRepo) Save(ctx context.Context, cfgs map[string]*domain.RoleLabelConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cfgs = cfgs
	return nil
}

// fakeOnboardingConfigRepo is an in-memory OnboardingConfigRepository.
type fakeOnboardingConfigRepo struct {
	cfgs    map[string]*domain.OnboardingConfig
	loadErr error
	saveErr error
}

func newFakeOnboardingConfigRepo() *fakeOnboardingConfigRepo {
	return &fakeOnboardingConfigRepo{cfgs: make(map[string]*domain.OnboardingConfig)}
}

func (f *fakeOnboardingConfigRepo) Load(ctx context.Context) (map[string]*domain.OnboardingConfig, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.cfgs, nil
}

func (f *fakeOnboardingConfigRepo) Save(ctx context.Context, cfgs map[string]*domain.OnboardingConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.cfgs = cfgs
	return nil
}

// sentMessage records one call on the fake messenger.
type sentMessage struct {
	ChannelID string
	UserID    string
	MessageID string
	Msg       domain.Message
}

// fakeMessenger records sends, edits, and DMs; message IDs are random so
// tests never depend on ordering.
type fakeMessenger struct {
	sent    []sentMessage
	edits   []sentMessage
	dms     []sentMessage
	sendErr error
	editErr error
	dmErr   error
	onSend  func() // runs before each send, mimics work arriving mid-delivery
}

func (f *fakeMessenger) SendMessage(ctx context.Context, channelID string, msg *domain.Message) (string, error) {
	if f.onSend != nil {
		f.onSend()
	}
	if f.sendErr != nil {
		return "", f.sendErr
	}
	id := uuid.NewString()
	f.sent = append(f.sent, sentMessage{ChannelID: channelID, MessageID: id, Msg: *msg})
	return id, nil
}

func (f *fakeMessenger) EditMessage(ctx context.Context, channelID, messageID string, msg *domain.Message) error {
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, sentMessage{ChannelID: channelID, MessageID: messageID, Msg: *msg})
	return nil
}

func (f *fakeMessenger) SendDirectMessage(ctx context.Context, userID string, msg *domain.Message) (string, error) {
	if f.dmErr != nil {
		return "", f.dmErr
	}
	id := uuid.NewString()
	f.dms = append(f.dms, sentMessage{UserID: userID, MessageID: id, Msg: *msg})
	return id, nil
}

// fakeDirectory is an in-memory GuildDirectory. Keys for channels and
// assignments are colon-joined IDs.
type fakeDirectory struct {
	channels       map[string]bool            // "guild:channel"
	rolesByName    map[string]string          // lowercase name -> role ID
	memberRoles    map[string][]domain.Role   // member ID -> roles
	roleMembers    map[string][]string        // role ID -> member IDs
	displays       map[string]string          // member ID -> display
	assigned       []string                   // "guild:member:role"
	memberRolesErr error
	roleMembersErr error
	assignErr      error
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		channels:    make(map[string]bool),
		rolesByName: make(map[string]string),
		memberRoles: make(map[string][]domain.Role),
		roleMembers: make(map[string][]string),
		displays:    make(map[string]string),
	}
}

func (f *fakeDirectory) addChannel(guildID, channelID string) {
	f.channels[guildID+":"+channelID] = true
}

func (f *fakeDirectory) ChannelExists(ctx context.Context, guildID, channelID string) bool {
	return f.channels[guildID+":"+channelID]
}

func (f *fakeDirectory) RoleByName(ctx context.Context, guildID, name string) (string, bool) {
	id, ok := f.rolesByName[strings.ToLower(name)]
	return id, ok
}

func (f *fakeDirectory) MemberRoles(ctx context.Context, guildID, memberID string) ([]domain.Role, error) {
	if f.memberRolesErr != nil {
		return nil, f.memberRolesErr
	}
	return f.memberRoles[memberID], nil
}

func (f *fakeDirectory) RoleMembers(ctx context.Context, guildID, roleID string) ([]string, error) {
	if f.roleMembersErr != nil {
		return nil, f.roleMembersErr
	}
	return f.roleMembers[roleID], nil
}

func (f *fakeDirectory) MemberDisplay(ctx context.Context, guildID, memberID string) string {
	if d, ok := f.displays[memberID]; ok {
		return d
	}
	return domain.Mention(memberID)
}

func (f *fakeDirectory) AssignRole(ctx context.Context, guildID, memberID, roleID string) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assigned = append(f.assigned, guildID+":"+memberID+":"+roleID)
	return nil
}
