package domain

import (
	"context"
	"time"
)

// VoteAction is the button a member pressed on a sign-up board.
type VoteAction string

const (
	VoteTank  VoteAction = "TANK"
	VoteHeal  VoteAction = "HEAL"
	VoteDPS   VoteAction = "DPS"
	VoteMaybe VoteAction = "MAYBE"
	VoteNo    VoteAction = "NO"
)

// YesBuckets is the fixed display order of the role-tagged yes buckets.
var YesBuckets = []VoteAction{VoteTank, VoteHeal, VoteDPS}

// ParseVoteAction maps a component identifier suffix to a vote action.
func ParseVoteAction(s string) (VoteAction, bool) {
	switch VoteAction(s) {
	case VoteTank, VoteHeal, VoteDPS, VoteMaybe, VoteNo:
		return VoteAction(s), true
	}
	return "", false
}

// RSVPEntry is one sign-up board, keyed in the store by the ID of the
// message that carries the summary card. A member appears in at most one
// of the yes buckets, maybe, or no.
type RSVPEntry struct {
	GuildID      string              `json:"guild_id"`
	ChannelID    string              `json:"channel_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description,omitempty"`
	When         time.Time           `json:"when"`
	ImageURL     string              `json:"image_url,omitempty"`
	TargetRoleID string              `json:"target_role_id,omitempty"`
	Closed       bool                `json:"closed,omitempty"`
	Yes          map[string][]string `json:"yes"`   // TANK/HEAL/DPS -> member IDs
	Maybe        map[string]string   `json:"maybe"` // member ID -> role label at click time
	MaybeOrder   []string            `json:"maybe_order,omitempty"`
	No           []string            `json:"no"`
}

// NewRSVPEntry returns an empty board for the given event card.
func NewRSVPEntry(guildID, channelID, title, description string, when time.Time) *RSVPEntry {
	e := &RSVPEntry{
		GuildID:     guildID,
		ChannelID:   channelID,
		Title:       title,
		Description: description,
		When:        when,
	}
	e.Normalize()
	return e
}

// Normalize repairs missing buckets, defensive against older saves.
func (e *RSVPEntry) Normalize() {
	if e.Yes == nil {
		e.Yes = make(map[string][]string)
	}
	for _, b := range YesBuckets {
		if e.Yes[string(b)] == nil {
			e.Yes[string(b)] = []string{}
		}
	}
	if e.Maybe == nil {
		e.Maybe = make(map[string]string)
	}
	if e.No == nil {
		e.No = []string{}
	}
	// MaybeOrder may predate the field; rebuild it from the map if the
	// two disagree.
	if len(e.MaybeOrder) != len(e.Maybe) {
		e.MaybeOrder = e.MaybeOrder[:0]
		for id := range e.Maybe {
			e.MaybeOrder = append(e.MaybeOrder, id)
		}
	}
}

// RemoveMember drops the member from every bucket. Idempotent.
func (e *RSVPEntry) RemoveMember(memberID string) {
	for _, b := range YesBuckets {
		e.Yes[string(b)] = removeString(e.Yes[string(b)], memberID)
	}
	if _, ok := e.Maybe[memberID]; ok {
		delete(e.Maybe, memberID)
		e.MaybeOrder = removeString(e.MaybeOrder, memberID)
	}
	e.No = removeString(e.No, memberID)
}

// ApplyVote moves the member into the target bucket, removing it from all
// others first. maybeLabel annotates a maybe vote with the member's resolved
// role label; it is ignored for other actions.
func (e *RSVPEntry) ApplyVote(memberID string, action VoteAction, maybeLabel string) {
	e.Normalize()
	e.RemoveMember(memberID)
	switch action {
	case VoteTank, VoteHeal, VoteDPS:
		e.Yes[string(action)] = append(e.Yes[string(action)], memberID)
	case VoteMaybe:
		e.Maybe[memberID] = maybeLabel
		e.MaybeOrder = append(e.MaybeOrder, memberID)
	case VoteNo:
		e.No = append(e.No, memberID)
	}
}

// BucketOf returns the bucket currently holding the member, or false.
func (e *RSVPEntry) BucketOf(memberID string) (VoteAction, bool) {
	for _, b := range YesBuckets {
		for _, id := range e.Yes[string(b)] {
			if id == memberID {
				return b, true
			}
		}
	}
	if _, ok := e.Maybe[memberID]; ok {
		return VoteMaybe, true
	}
	for _, id := range e.No {
		if id == memberID {
			return VoteNo, true
		}
	}
	return "", false
}

// Voters returns every member ID present in any bucket.
func (e *RSVPEntry) Voters() []string {
	var out []string
	for _, b := range YesBuckets {
		out = append(out, e.Yes[string(b)]...)
	}
	out = append(out, e.MaybeOrder...)
	out = append(out, e.No...)
	return out
}

func removeString(s []string, v string) []string {
	out := s[:0]
	for _, x := range s {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

// RSVPStoreRepository persists the sign-up boards keyed by message ID.
type RSVPStoreRepository interface {
	Load(ctx context.Context) (map[string]*RSVPEntry, error)
	Save(ctx context.Context, store map[string]*RSVPEntry) error
}
