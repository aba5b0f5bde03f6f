package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flammebot/internal/domain"
)

func TestGuildConfigRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewGuildConfigRepo(dir)

	// Missing file yields an empty catalog, not an error.
	cfgs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfgs)

	ev, err := domain.NewEventDefinition("Raid Night",
		domain.NewRecurringSchedule([]time.Weekday{time.Monday, time.Wednesday}),
		"20:00", 90, []int{15, 30})
	require.NoError(t, err)
	ev.MentionRoleID = "r1"

	cfg := domain.NewGuildConfig("g1")
	cfg.AnnounceChannelID = "c1"
	cfg.Events[ev.Key()] = ev
	require.NoError(t, repo.Save(ctx, map[string]*domain.GuildConfig{"g1": cfg}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "g1")
	assert.Equal(t, "c1", got["g1"].AnnounceChannelID)
	loaded := got["g1"].Events["raid night"]
	require.NotNil(t, loaded)
	assert.Equal(t, "Raid Night", loaded.Name)
	assert.Equal(t, domain.ScheduleRecurring, loaded.Schedule.Kind)
	assert.Equal(t, []int{15, 30}, loaded.PreReminders)
	assert.Equal(t, "r1", loaded.MentionRoleID)
}

func TestGuildConfigRepo_Load_FillsDefaults(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// A hand-edited document may omit the guild ID and events map.
	raw := []byte(`{"g1": {"announce_channel_id": "c1"}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guild_configs.json"), raw, 0o600))

	got, err := NewGuildConfigRepo(dir).Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "g1")
	assert.Equal(t, "g1", got["g1"].GuildID)
	assert.NotNil(t, got["g1"].Events)
}

func TestPostLogRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewPostLogRepo(dir)

	log, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, log)

	log.Add("g1:raid:20250303T200000+0100:start")
	log.Add("g1:raid:20250303T194500+0100:pre15")
	require.NoError(t, repo.Save(ctx, log))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Contains("g1:raid:20250303T200000+0100:start"))
	assert.True(t, got.Contains("g1:raid:20250303T194500+0100:pre15"))
	assert.Len(t, got, 2)

	// The persisted form is a sorted string array.
	data, err := os.ReadFile(filepath.Join(dir, "post_log.json"))
	require.NoError(t, err)
	var keys []string
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Equal(t, []string{
		"g1:raid:20250303T194500+0100:pre15",
		"g1:raid:20250303T200000+0100:start",
	}, keys)
}

func TestRSVPStoreRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewRSVPStoreRepo(dir)

	store, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, store)

	entry := domain.NewRSVPEntry("g1", "c1", "Raid", "desc",
		time.Date(2025, 3, 8, 20, 0, 0, 0, time.UTC))
	entry.ApplyVote("u1", domain.VoteTank, "")
	entry.ApplyVote("u2", domain.VoteMaybe, "Heal")
	require.NoError(t, repo.Save(ctx, map[string]*domain.RSVPEntry{"m1": entry}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	loaded := got["m1"]
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"u1"}, loaded.Yes[string(domain.VoteTank)])
	assert.Equal(t, "Heal", loaded.Maybe["u2"])
	assert.Equal(t, []string{"u2"}, loaded.MaybeOrder)
	assert.True(t, loaded.When.Equal(entry.When))
}

func TestRSVPStoreRepo_Load_NormalizesOldDocuments(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// An older document without buckets or maybe order.
	raw := []byte(`{"m1": {"guild_id": "g1", "channel_id": "c1", "title": "Raid",
		"when": "2025-03-08T20:00:00Z", "maybe": {"u1": "Tank"}}}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "event_rsvp.json"), raw, 0o600))

	got, err := NewRSVPStoreRepo(dir).Load(ctx)
	require.NoError(t, err)
	loaded := got["m1"]
	require.NotNil(t, loaded)
	for _, b := range domain.YesBuckets {
		assert.NotNil(t, loaded.Yes[string(b)])
	}
	assert.Equal(t, []string{"u1"}, loaded.MaybeOrder)
	assert.NotNil(t, loaded.No)
}

func TestRSVPConfigRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewRSVPConfigRepo(dir)

	cfgs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfgs)

	cfgs["g1"] = &domain.RoleLabelConfig{TankRoleID: "rt", HealRoleID: "rh", DPSRoleID: "rd", LogChannelID: "cl"}
	require.NoError(t, repo.Save(ctx, cfgs))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "g1")
	assert.Equal(t, "rt", got["g1"].TankRoleID)
	assert.Equal(t, "cl", got["g1"].LogChannelID)

	// Field names on disk match the historical document shape.
	data, err := os.ReadFile(filepath.Join(dir, "event_rsvp_cfg.json"))
	require.NoError(t, err)
	var raw map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "rt", raw["g1"]["TANK"])
	assert.Equal(t, "cl", raw["g1"]["LOG_CH"])
}

func TestOnboardingConfigRepo(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewOnboardingConfigRepo(dir)

	cfgs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cfgs)

	cfgs["g1"] = &domain.OnboardingConfig{ReviewChannelID: "c-review", NewbieRoleID: "r-new"}
	require.NoError(t, repo.Save(ctx, cfgs))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, got, "g1")
	assert.Equal(t, "c-review", got["g1"].ReviewChannelID)
	assert.Equal(t, "r-new", got["g1"].NewbieRoleID)
}

func TestWriteDoc_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeDoc(filepath.Join(dir, "doc.json"), map[string]string{"a": "b"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.json", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestReadDoc_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var v map[string]string
	err := readDoc(path, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
