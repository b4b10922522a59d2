package utils

import (
	"testing"

	"github.com/Luismorlan/tunemux/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(TestDBNameCharLength)
	assert.Len(t, s, TestDBNameCharLength)
	assert.Regexp(t, "^[a-z]+$", s)
}

func TestCreateTempDB(t *testing.T) {
	db, dbName := CreateTempDB(t)
	assert.Contains(t, dbName, TestDBPrefix)
	assert.False(t, IsPostgres(db))

	for _, table := range []interface{}{
		&model.User{}, &model.Follow{}, &model.Song{},
		&model.Playlist{}, &model.PlaylistSong{}, &model.AssetJob{},
	} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	require.Nil(t, db.Create(&model.User{Username: "a", Email: "a@x.io", Password: "p"}).Error)
	var count int64
	require.Nil(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTempDBsAreIsolated(t *testing.T) {
	db1, _ := CreateTempDB(t)
	db2, _ := CreateTempDB(t)

	require.Nil(t, db1.Create(&model.User{Username: "a", Email: "a@x.io", Password: "p"}).Error)

	var count int64
	require.Nil(t, db2.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestOpenDatabaseUnsupportedDriver(t *testing.T) {
	_, err := OpenDatabase("oracle", "")
	assert.Error(t, err)
}
