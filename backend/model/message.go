package model

import (
	"github.com/burugo/thing"
)

type MessageKind string

const (
	MessageKindPlain       MessageKind = "plain"
	MessageKindFolderShare MessageKind = "folder_share"
)

// ChatMessage is one entry of the global feed. FolderShare messages embed
// the folder credentials by value: a later password change on the folder
// does not propagate to messages already sent.
//
// The feed is append-only; messages are never edited or deleted.
type ChatMessage struct {
	thing.BaseModel
	SenderID       int64       `db:"sender_id,index" json:"sender_id"`
	SenderName     string      `db:"sender_name" json:"sender_name"`
	Kind           MessageKind `db:"kind" json:"kind"`
	Text           string      `db:"text" json:"text"`
	FolderName     string      `db:"folder_name" json:"folder_name,omitempty"`
	FolderPassword string      `db:"folder_password" json:"folder_password,omitempty"`
}

func (m *ChatMessage) TableName() string {
	return "chat_messages"
}

var ChatMessageDB *thing.Thing[*ChatMessage]

func ChatMessageInit() error {
	var err error
	ChatMessageDB, err = thing.Use[*ChatMessage]()
	return err
}

func AppendChatMessage(m *ChatMessage) error {
	return ChatMessageDB.Save(m)
}

// GetChatFeed returns the whole feed, oldest first. Callers re-read the full
// sequence on every fetch; there is no cursor.
func GetChatFeed() ([]*ChatMessage, error) {
	return ChatMessageDB.
		Order("created_at ASC, id ASC").
		All()
}

func CountChatMessages() (int64, error) {
	return ChatMessageDB.Query(thing.QueryParams{}).Count()
}

// seedWelcomeMessagesIfNeed fills an empty feed with the two system notices
// every new deployment starts with.
func seedWelcomeMessagesIfNeed() error {
	count, err := CountChatMessages()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seeds := []*ChatMessage{
		{
			SenderName: "System",
			Kind:       MessageKindPlain,
			Text:       "Welcome to LockBox Global Chat!",
		},
		{
			SenderName: "System",
			Kind:       MessageKindPlain,
			Text:       "You can use this chat to communicate with other users and share folder access credentials.",
		},
	}
	for _, m := range seeds {
		if err := AppendChatMessage(m); err != nil {
			return err
		}
	}
	return nil
}
