package repository

import (
	"context"
	"fmt"

	"github.com/Luismorlan/tunemux/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Direction int

const (
	// From the "from" endpoint to the "to" endpoint, e.g. the users a
	// follower follows, or the songs of a playlist.
	Outgoing Direction = iota
	// From the "to" endpoint back to the "from" endpoint, e.g. the followers
	// of a user.
	Incoming
)

// EdgeKind describes a many-to-many relation stored as rows of its own
// table. Edge ids grow with insertion, traversal follows that order.
type EdgeKind struct {
	Name       string
	Table      string
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
	newEdge    func(from, to uint) interface{}
}

var (
	FollowEdge = EdgeKind{
		Name:       "follow",
		Table:      "follows",
		FromTable:  "users",
		FromColumn: "follower_id",
		ToTable:    "users",
		ToColumn:   "followed_id",
		newEdge: func(from, to uint) interface{} {
			return &model.Follow{FollowerID: from, FollowedID: to}
		},
	}

	MembershipEdge = EdgeKind{
		Name:       "playlist_song",
		Table:      "playlist_songs",
		FromTable:  "playlists",
		FromColumn: "playlist_id",
		ToTable:    "songs",
		ToColumn:   "song_id",
		newEdge: func(from, to uint) interface{} {
			return &model.PlaylistSong{PlaylistID: from, SongID: to}
		},
	}
)

// EdgeManager adds, removes and traverses edges of any EdgeKind. Both
// endpoints must have been resolved by the caller. Add and Remove are
// idempotent: a pair exists at most once and removing a missing pair is a
// no-op.
type EdgeManager struct {
	db *gorm.DB
}

func NewEdgeManager(db *gorm.DB) *EdgeManager {
	return &EdgeManager{db: db}
}

// Add inserts the (from, to) edge, created is false when it already existed.
func (m *EdgeManager) Add(ctx context.Context, kind EdgeKind, from, to uint) (created bool, err error) {
	exists, err := m.Exists(ctx, kind, from, to)
	if err != nil || exists {
		return false, err
	}
	res := conn(ctx, m.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(kind.newEdge(from, to))
	if res.Error != nil {
		return false, translateError(res.Error, "failed to add "+kind.Name+" edge")
	}
	return res.RowsAffected > 0, nil
}

// Remove deletes the (from, to) edge, removed is false when there was none.
func (m *EdgeManager) Remove(ctx context.Context, kind EdgeKind, from, to uint) (removed bool, err error) {
	res := conn(ctx, m.db).
		Where(kind.FromColumn+" = ? AND "+kind.ToColumn+" = ?", from, to).
		Delete(kind.newEdge(0, 0))
	if res.Error != nil {
		return false, translateError(res.Error, "failed to remove "+kind.Name+" edge")
	}
	return res.RowsAffected > 0, nil
}

func (m *EdgeManager) Exists(ctx context.Context, kind EdgeKind, from, to uint) (bool, error) {
	count, err := m.Count(ctx, kind, from, to)
	return count > 0, err
}

// Count returns how many (from, to) edges are stored, never more than one.
func (m *EdgeManager) Count(ctx context.Context, kind EdgeKind, from, to uint) (int64, error) {
	var count int64
	err := conn(ctx, m.db).
		Table(kind.Table).
		Where(kind.FromColumn+" = ? AND "+kind.ToColumn+" = ?", from, to).
		Count(&count).Error
	return count, translateError(err, "failed to count "+kind.Name+" edges")
}

// Degree counts the edges touching id in the given direction.
func (m *EdgeManager) Degree(ctx context.Context, kind EdgeKind, dir Direction, id uint) (int64, error) {
	anchor, _, _ := kind.endpoints(dir)
	var count int64
	err := conn(ctx, m.db).
		Table(kind.Table).
		Where(anchor+" = ?", id).
		Count(&count).Error
	return count, translateError(err, "failed to count "+kind.Name+" edges")
}

// Detach removes every edge touching id in the given direction. Used when an
// endpoint is deleted.
func (m *EdgeManager) Detach(ctx context.Context, kind EdgeKind, dir Direction, id uint) error {
	anchor, _, _ := kind.endpoints(dir)
	err := conn(ctx, m.db).
		Where(anchor+" = ?", id).
		Delete(kind.newEdge(0, 0)).Error
	return translateError(err, "failed to detach "+kind.Name+" edges")
}

// Neighbors loads into dest (a pointer to a slice of the neighbor model) the
// entities reachable from id in the given direction, in edge insertion
// order and windowed by page.
func (m *EdgeManager) Neighbors(ctx context.Context, kind EdgeKind, dir Direction, id uint, page model.Page, dest interface{}) error {
	anchor, target, targetTable := kind.endpoints(dir)
	err := conn(ctx, m.db).
		Table(targetTable).
		Select(targetTable+".*").
		Joins(fmt.Sprintf("JOIN %s ON %s.%s = %s.id", kind.Table, kind.Table, target, targetTable)).
		Where(fmt.Sprintf("%s.%s = ?", kind.Table, anchor), id).
		Order(kind.Table + ".id").
		Scopes(Paginate(page)).
		Find(dest).Error
	return translateError(err, "failed to traverse "+kind.Name+" edges")
}

// endpoints returns the anchor column, the neighbor column and the neighbor
// table for a traversal direction.
func (k EdgeKind) endpoints(dir Direction) (anchor string, target string, targetTable string) {
	if dir == Incoming {
		return k.ToColumn, k.FromColumn, k.FromTable
	}
	return k.FromColumn, k.ToColumn, k.ToTable
}
