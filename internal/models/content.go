package models

// MessageContent is the rendered payload delivered through a channel.
// It is a sealed union: one variant per channel payload shape, so
// rendering code switches over concrete types rather than probing
// optional fields.
type MessageContent interface {
	// Kind names the payload shape for serialization and logging.
	Kind() string

	messageContent()
}

// EmailContent is the payload shape for the email channel.
type EmailContent struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"html_body"`
	Preview  string `json:"preview,omitempty"`
}

// SMSContent is the payload shape for the sms channel.
type SMSContent struct {
	Text string `json:"text"`
}

// PushContent is the payload shape for the push channel.
type PushContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CardContent is the payload shape for the web and mobile_app channels:
// an in-page or in-app offer card.
type CardContent struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url,omitempty"`
}

// ChatContent is the payload shape for the voice and chatbot channels.
type ChatContent struct {
	Text string `json:"text"`
}

func (EmailContent) Kind() string { return "email" }
func (SMSContent) Kind() string   { return "sms" }
func (PushContent) Kind() string  { return "push" }
func (CardContent) Kind() string  { return "card" }
func (ChatContent) Kind() string  { return "chat" }

func (EmailContent) messageContent() {}
func (SMSContent) messageContent()   {}
func (PushContent) messageContent()  {}
func (CardContent) messageContent()  {}
func (ChatContent) messageContent()  {}
