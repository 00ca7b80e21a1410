package models

import "time"

// ConnectionStatus, bağlantı isteğinin durumunu temsil eden typed constant.
type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
)

// Connection, iki mezun arasındaki bağlantıyı (network ilişkisini) temsil eder.
// Requester isteği gönderen, Recipient kabul etmesi beklenen taraftır.
type Connection struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requester_id"`
	RecipientID string           `json:"recipient_id"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ConnectionWithUser, bağlantı kaydı + karşı taraf kullanıcı bilgisi.
// Network listesi render etmek için kullanılır.
type ConnectionWithUser struct {
	ID        string           `json:"id"`
	OtherUser *User            `json:"other_user"`
	Status    ConnectionStatus `json:"status"`
	// Incoming: istek karşı taraftan mı geldi (kabul butonu gösterilsin mi)
	Incoming  bool      `json:"incoming"`
	CreatedAt time.Time `json:"created_at"`
}
