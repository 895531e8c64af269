package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/desertthunder/kedoo/internal/shared"
)

// ReleaseStatus is the moderation state of a [Release].
type ReleaseStatus string

const (
	StatusDraft      ReleaseStatus = "draft"
	StatusModeration ReleaseStatus = "moderation"
	StatusApproved   ReleaseStatus = "approved"
	StatusRejected   ReleaseStatus = "rejected"
)

// ReleaseStatuses lists every status in display order.
var ReleaseStatuses = []ReleaseStatus{StatusDraft, StatusModeration, StatusApproved, StatusRejected}

// transitions holds the allowed moves between statuses.
var transitions = map[ReleaseStatus][]ReleaseStatus{
	StatusDraft:      {StatusModeration},
	StatusModeration: {StatusApproved, StatusRejected, StatusDraft},
	StatusRejected:   {StatusDraft, StatusModeration},
}

// ParseReleaseStatus converts a user-supplied name into a [ReleaseStatus].
func ParseReleaseStatus(s string) (ReleaseStatus, error) {
	status := ReleaseStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: unknown release status %q", shared.ErrInvalidArgument, s)
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses.
func (s ReleaseStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusModeration, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a release may move from s to next.
func (s ReleaseStatus) CanTransition(next ReleaseStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Label returns the human-readable badge text for the status.
func (s ReleaseStatus) Label() string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusModeration:
		return "In moderation"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// YesNo is a boolean persisted as "yes"/"no". Decoding also accepts JSON booleans.
type YesNo bool

func (y YesNo) MarshalJSON() ([]byte, error) {
	if y {
		return []byte(`"yes"`), nil
	}
	return []byte(`"no"`), nil
}

func (y *YesNo) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case `"yes"`, `true`:
		*y = true
	case `"no"`, `false`, `null`, `""`:
		*y = false
	default:
		return fmt.Errorf("%w: expected \"yes\" or \"no\", got %s", shared.ErrInvalidInput, data)
	}
	return nil
}

// Release is a musical work submission: album metadata, tracks and a moderation status.
type Release struct {
	ID              string        `json:"id" validate:"required"`
	UserID          string        `json:"userId" validate:"required"`
	AlbumTitle      string        `json:"albumTitle" validate:"required"`
	AlbumArtists    []string      `json:"albumArtists"`
	WasReleased     YesNo         `json:"wasReleased"`
	UPC             string        `json:"upc,omitempty"`
	OldReleaseDate  string        `json:"oldReleaseDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Cover           string        `json:"cover,omitempty" validate:"omitempty,datauri"`
	Status          ReleaseStatus `json:"status" validate:"oneof=draft moderation approved rejected"`
	Genre           string        `json:"genre"`
	Tracks          []Track       `json:"tracks" validate:"dive"`
	CreatedAt       Timestamp     `json:"createdAt,omitempty"`
	UpdatedAt       Timestamp     `json:"updatedAt,omitempty"`
	DeletedAt       Timestamp     `json:"deletedAt,omitempty"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
}

var _ Record = (*Release)(nil)

func (r *Release) RecordID() string { return r.ID }
func (r *Release) Owner() string    { return r.UserID }
func (r *Release) Validate() error  { return validateStruct(r) }

// Artists returns the album artists joined for display.
func (r *Release) Artists() string {
	return strings.Join(CompactStrings(r.AlbumArtists), ", ")
}

// ExplicitTracks counts tracks flagged with explicit lyrics.
func (r *Release) ExplicitTracks() int {
	n := 0
	for _, t := range r.Tracks {
		if t.ExplicitLyrics {
			n++
		}
	}
	return n
}

// Track is a single song of a [Release]. It has no lifecycle of its own.
type Track struct {
	ID             string   `json:"id" validate:"required"`
	Name           string   `json:"name"`
	Artists        []string `json:"artists"`
	File           string   `json:"file,omitempty"`
	ISRC           string   `json:"isrc"`
	Version        string   `json:"version"`
	Musicians      []string `json:"musicians"`
	Lyricists      []string `json:"lyricists"`
	TikTokMoment   string   `json:"tiktokMoment"`
	ExplicitLyrics bool     `json:"explicitLyrics"`
	HasLyrics      bool     `json:"hasLyrics"`
	Language       string   `json:"language,omitempty"`
	Lyrics         string   `json:"lyrics,omitempty"`
}

// NewTrack returns a blank track the way the release form starts one: one empty slot per list, lyrics expected.
func NewTrack(id string) Track {
	return Track{
		ID:        id,
		Artists:   []string{""},
		Musicians: []string{""},
		Lyricists: []string{""},
		HasLyrics: true,
	}
}

// ReleasePatch is a partial update for [Release]. Nil fields are left unchanged; id and owner cannot be patched.
type ReleasePatch struct {
	AlbumTitle      *string        `json:"albumTitle,omitempty"`
	AlbumArtists    *[]string      `json:"albumArtists,omitempty"`
	WasReleased     *YesNo         `json:"wasReleased,omitempty"`
	UPC             *string        `json:"upc,omitempty"`
	OldReleaseDate  *string        `json:"oldReleaseDate,omitempty"`
	Cover           *string        `json:"cover,omitempty"`
	Status          *ReleaseStatus `json:"status,omitempty"`
	Genre           *string        `json:"genre,omitempty"`
	Tracks          *[]Track       `json:"tracks,omitempty"`
	RejectionReason *string        `json:"rejectionReason,omitempty"`
}

// Apply merges the non-nil fields of p into r.
func (p ReleasePatch) Apply(r *Release) {
	if p.AlbumTitle != nil {
		r.AlbumTitle = *p.AlbumTitle
	}
	if p.AlbumArtists != nil {
		r.AlbumArtists = append([]string{}, (*p.AlbumArtists)...)
	}
	if p.WasReleased != nil {
		r.WasReleased = *p.WasReleased
	}
	if p.UPC != nil {
		r.UPC = *p.UPC
	}
	if p.OldReleaseDate != nil {
		r.OldReleaseDate = *p.OldReleaseDate
	}
	if p.Cover != nil {
		r.Cover = *p.Cover
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Genre != nil {
		r.Genre = *p.Genre
	}
	if p.Tracks != nil {
		r.Tracks = append([]Track{}, (*p.Tracks)...)
	}
	if p.RejectionReason != nil {
		r.RejectionReason = *p.RejectionReason
	}
}

// StatusPatch builds a patch that only changes the status, and the rejection reason alongside it.
func StatusPatch(status ReleaseStatus, reason string) ReleasePatch {
	return ReleasePatch{Status: &status, RejectionReason: &reason}
}

// Empty reports whether the patch changes nothing.
func (p ReleasePatch) Empty() bool {
	return p == ReleasePatch{}
}
