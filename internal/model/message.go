package model

import "time"

// Contact message statuses.
const (
	MessageUnread  = "unread"
	MessageRead    = "read"
	MessageReplied = "replied"
)

// Contact message subjects accepted from the contact form.
var MessageSubjects = map[string]bool{
	"booking":     true,
	"information": true,
	"complaint":   true,
	"suggestion":  true,
	"other":       true,
}

// ContactMessage is a message submitted through the public contact form.
// UserID is set when the sender was logged in, nil otherwise.
type ContactMessage struct {
	ID        uint64    // contact_messages.id
	UserID    *uint64   // contact_messages.user_id (nullable)
	FirstName string    // contact_messages.first_name
	LastName  string    // contact_messages.last_name
	Email     string    // contact_messages.email
	Phone     string    // contact_messages.phone
	Subject   string    // contact_messages.subject
	Message   string    // contact_messages.message
	Status    string    // contact_messages.status
	CreatedAt time.Time // contact_messages.created_at
}
