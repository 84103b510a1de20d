package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusActive Status = "active"
	StatusBanned Status = "banned"
	StatusFrozen Status = "frozen"
)

type Level string

const (
	LevelNew     Level = "new"
	LevelActive  Level = "active"
	LevelPremium Level = "premium"
)

type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Password    string `json:"password,omitempty"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	AvatarColor string `json:"avatarColor"`
	Role        Role   `json:"role"`
	Status      Status `json:"status"`
	Level       Level  `json:"level"`
}

// Public returns a copy of the user without its stored credential.
func (u User) Public() User {
	u.Password = ""
	return u
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type ChatType string

const (
	ChatTypeChat    ChatType = "chat"
	ChatTypeChannel ChatType = "channel"
	ChatTypeGroup   ChatType = "group"
)

func (t ChatType) Valid() bool {
	switch t {
	case ChatTypeChat, ChatTypeChannel, ChatTypeGroup:
		return true
	}
	return false
}

type Chat struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        ChatType `json:"type"`
	Avatar      string   `json:"avatar"`
	Verified    bool     `json:"verified,omitempty"`
	Scam        bool     `json:"scam,omitempty"`
	Subscribers *int     `json:"subscribers,omitempty"`
}

// AISenderID marks messages produced by the scripted reply.
const AISenderID = "ai"

type Message struct {
	ID        string `json:"id"`
	ChatID    string `json:"chatId"`
	SenderID  string `json:"senderId"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}
