package chat

type ListMessagesCommand struct {
	ChatID   string `json:"chatId" validate:"notblank"`
	CallerID string `json:"callerId" validate:"notblank"`
}

type CreateMessageCommand struct {
	ChatID      string `json:"chatId" validate:"notblank"`
	CallerID    string `json:"callerId" validate:"notblank"`
	Content     string `json:"content" validate:"notblank"`
	ContentType string `json:"content_type" validate:"notblank"`
}

type EditMessageCommand struct {
	ChatID    string `json:"chatId" validate:"notblank"`
	MessageID string `json:"messageId" validate:"notblank"`
	CallerID  string `json:"callerId" validate:"notblank"`
	Content   string `json:"content" validate:"notblank"`
}

type DeleteMessageCommand struct {
	ChatID    string `json:"chatId" validate:"notblank"`
	MessageID string `json:"messageId" validate:"notblank"`
	CallerID  string `json:"callerId" validate:"notblank"`
}
