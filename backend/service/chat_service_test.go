package service

import (
	"testing"

	apperrors "lockbox/backend/common/errors"
	"lockbox/backend/model"

	"github.com/stretchr/testify/assert"
)

func TestPostMessage(t *testing.T) {
	setupTestDB(t)

	_, err := Post("   ", 1, "Alice")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrEmptyMessage))

	message, err := Post("  hello everyone  ", 1, "Alice")
	assert.NoError(t, err)
	assert.Equal(t, model.MessageKindPlain, message.Kind)
	assert.Equal(t, "hello everyone", message.Text)
	assert.Equal(t, int64(1), message.SenderID)
	assert.Equal(t, "Alice", message.SenderName)
	assert.Empty(t, message.FolderName)
	assert.Empty(t, message.FolderPassword)
}

func TestShareRequiresOwnership(t *testing.T) {
	setupTestDB(t)

	folder := mustCreateFolder(t, 1, "Taxes", "secret1", model.FolderPublic)

	_, err := Share(folder.ID, 2, "Mallory")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFolderOwner))

	_, err = Share(99999, 1, "Alice")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrFolderNotFound))

	message, err := Share(folder.ID, 1, "Alice")
	assert.NoError(t, err)
	assert.Equal(t, model.MessageKindFolderShare, message.Kind)
	assert.Equal(t, "Taxes", message.FolderName)
	assert.Equal(t, "secret1", message.FolderPassword)
}

func TestShareEmbedsCredentialsByValue(t *testing.T) {
	setupTestDB(t)

	folder := mustCreateFolder(t, 1, "Taxes", "secret1", model.FolderPublic)

	message, err := Share(folder.ID, 1, "Alice")
	assert.NoError(t, err)

	// changing the folder afterwards must not touch the sent message
	folder.Password = "changed9"
	assert.NoError(t, model.FolderDB.Save(folder))

	feed, err := Feed()
	assert.NoError(t, err)
	assert.Len(t, feed, 1)
	assert.Equal(t, message.ID, feed[0].ID)
	assert.Equal(t, "secret1", feed[0].FolderPassword)

	// the shared credential no longer opens the folder
	_, err = AccessFolderByName(feed[0].FolderName, feed[0].FolderPassword)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrWrongPassword))
}

func TestFeedOldestFirst(t *testing.T) {
	setupTestDB(t)

	first, err := Post("first", 1, "Alice")
	assert.NoError(t, err)
	second, err := Post("second", 2, "Bob")
	assert.NoError(t, err)
	third, err := Post("third", 1, "Alice")
	assert.NoError(t, err)

	feed, err := Feed()
	assert.NoError(t, err)
	assert.Len(t, feed, 3)
	assert.Equal(t, first.ID, feed[0].ID)
	assert.Equal(t, second.ID, feed[1].ID)
	assert.Equal(t, third.ID, feed[2].ID)
}

func TestListShareable(t *testing.T) {
	setupTestDB(t)

	folders, err := ListShareable(1)
	assert.NoError(t, err)
	assert.Empty(t, folders)

	mustCreateFolder(t, 1, "Mine", "secret1", model.FolderPublic)
	mustCreateFolder(t, 2, "Not Mine", "secret1", model.FolderPublic)

	folders, err = ListShareable(1)
	assert.NoError(t, err)
	assert.Len(t, folders, 1)
	assert.Equal(t, "Mine", folders[0].Name)
}
