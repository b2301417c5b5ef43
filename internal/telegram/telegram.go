package telegram

// Update represents an incoming Telegram update.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message represents a Telegram message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
	Voice     *Voice `json:"voice"`
}

// User represents a Telegram user.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID int64 `json:"id"`
}

// Voice represents a voice note attached to a message.
type Voice struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
}

// File represents a file ready to be downloaded via the file endpoint.
type File struct {
	FileID   string `json:"file_id"`
	FilePath string `json:"file_path"`
}

// ReplyKeyboardMarkup is a custom reply keyboard shown to the user.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard"`
	OneTimeKeyboard bool               `json:"one_time_keyboard"`
}

// KeyboardButton is a single button of a reply keyboard.
type KeyboardButton struct {
	Text string `json:"text"`
}

// ReplyKeyboardRemove removes the current custom keyboard.
type ReplyKeyboardRemove struct {
	RemoveKeyboard bool `json:"remove_keyboard"`
}

// MenuKeyboard builds a one-column reply keyboard from a list of options.
func MenuKeyboard(options []string) *ReplyKeyboardMarkup {
	rows := make([][]KeyboardButton, 0, len(options))
	for _, opt := range options {
		rows = append(rows, []KeyboardButton{{Text: opt}})
	}
	return &ReplyKeyboardMarkup{
		Keyboard:        rows,
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

// Chat actions for the liveness indicator.
const (
	ActionTyping      = "typing"
	ActionRecordVoice = "record_voice"
)
