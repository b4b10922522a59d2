package model

import "time"

/*
Follow is a directed "many-to-many" edge of the social graph, FollowerID
follows FollowedID. The edge belongs to neither user.

Id: auto increment, defines edge insertion order for traversal
FollowerID: user who follows
FollowedID: user being followed
CreatedAt: time when the edge is created

A (FollowerID, FollowedID) pair exists at most once.
*/
type Follow struct {
	Id         uint `gorm:"primaryKey"`
	FollowerID uint `gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	FollowedID uint `gorm:"not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt  time.Time
}
