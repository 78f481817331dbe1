package service

import (
	"strings"

	apperrors "lockbox/backend/common/errors"
	"lockbox/backend/library/ws"
	"lockbox/backend/model"
)

const folderShareText = "I'm sharing a folder with everyone!"

var feedHub *ws.Hub

// AttachFeedHub wires the websocket hub that gets notified on every feed
// append. Optional; without it the feed is poll-only.
func AttachFeedHub(h *ws.Hub) {
	feedHub = h
}

func FeedHub() *ws.Hub {
	return feedHub
}

func notifyFeed(m *model.ChatMessage) {
	if feedHub != nil {
		feedHub.Broadcast(&ws.Event{Type: ws.EventChatMessage, Payload: m})
	}
}

// ListShareable returns the folders the sender is allowed to push into the
// feed, i.e. their own. An empty result means the share action is
// unavailable and Share will refuse.
func ListShareable(ownerID int64) ([]*model.Folder, error) {
	return ListFolders(ownerID)
}

// Share appends a FolderShare message embedding the folder's name and
// password by value. Ownership is re-validated here instead of trusting the
// caller to pre-filter.
func Share(folderID, senderID int64, senderDisplayName string) (*model.ChatMessage, error) {
	folder, err := model.GetFolderById(folderID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrFolderNotFound, folderMissingMsg)
	}
	if folder.OwnerID != senderID {
		return nil, apperrors.New(apperrors.ErrNotFolderOwner, "only the folder owner can share it")
	}

	message := &model.ChatMessage{
		SenderID:       senderID,
		SenderName:     senderDisplayName,
		Kind:           model.MessageKindFolderShare,
		Text:           folderShareText,
		FolderName:     folder.Name,
		FolderPassword: folder.Password,
	}
	if err := model.AppendChatMessage(message); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to append share message")
	}
	notifyFeed(message)
	return message, nil
}

// Post appends a plain message to the feed.
func Post(text string, senderID int64, senderDisplayName string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.New(apperrors.ErrEmptyMessage, "message must not be empty")
	}

	message := &model.ChatMessage{
		SenderID:   senderID,
		SenderName: senderDisplayName,
		Kind:       model.MessageKindPlain,
		Text:       text,
	}
	if err := model.AppendChatMessage(message); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to append message")
	}
	notifyFeed(message)
	return message, nil
}

// Feed returns the whole feed, oldest first. Every call re-reads the
// persisted sequence.
func Feed() ([]*model.ChatMessage, error) {
	messages, err := model.GetChatFeed()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDependency, "failed to load chat feed")
	}
	return messages, nil
}
