package models

const (
	DateLayout     = "02/01/2006"
	DateTimeLayout = "02/01/2006 15:04:05"
)

const (
	MovementCharge  = "cargo"
	MovementPayment = "abono"
)

type Product struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string  `gorm:"not null"                 json:"name"`
	Price      float64 `gorm:"not null"                 json:"price"`
	Quantity   int     `json:"quantity"`
	ExpiryDate string  `json:"expiry_date,omitempty"`
	CreatedAt  int64   `gorm:"not null"                 json:"created_at"`
	UpdatedAt  int64   `gorm:"not null"                 json:"updated_at"`
}

// Entry is the stock receipt for a product. There is exactly one row per
// product: positive intakes on the same day accumulate into it, anything
// else overwrites it.
type Entry struct {
	ID          uint   `gorm:"primaryKey"               json:"id"`
	ProductID   uint   `gorm:"uniqueIndex;not null"     json:"product_id"`
	ProductName string `gorm:"not null"                 json:"product_name"`
	Quantity    int    `json:"quantity"`
	Date        string `gorm:"not null"                 json:"date"`
	DateTime    string `gorm:"not null"                 json:"date_time"`
	Timestamp   int64  `gorm:"not null"                 json:"timestamp"`
}

type Client struct {
	ID               uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string `gorm:"not null"                 json:"name"`
	LastName         string `json:"last_name"`
	RegistrationDate string `json:"registration_date"`
	Timestamp        int64  `gorm:"not null"                 json:"timestamp"`
}

// Credit is the running debt ledger of one client, one row per client.
type Credit struct {
	ID         uint             `gorm:"primaryKey"           json:"id"`
	ClientID   uint             `gorm:"uniqueIndex;not null" json:"client_id"`
	ClientName string           `gorm:"not null"             json:"client_name"`
	TotalDebt  float64          `json:"total_debt"`
	LastUpdate string           `json:"last_update"`
	Movements  []CreditMovement `gorm:"foreignKey:CreditID"  json:"movements"`
}

type CreditMovement struct {
	ID          uint           `gorm:"primaryKey"             json:"id"`
	CreditID    uint           `gorm:"index;not null"         json:"credit_id"`
	Date        string         `gorm:"not null"               json:"date"`
	DateTime    string         `gorm:"not null"               json:"date_time"`
	Amount      float64        `json:"amount"`
	Type        string         `gorm:"not null"               json:"type"`
	Description string         `json:"description"`
	SaleID      uint           `json:"sale_id"`
	Items       []MovementItem `gorm:"foreignKey:MovementID"  json:"items"`
}

type MovementItem struct {
	ID          uint    `gorm:"primaryKey"     json:"id"`
	MovementID  uint    `gorm:"index;not null" json:"movement_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type Sale struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID   uint       `gorm:"index"                    json:"client_id"`
	ClientName string     `json:"client_name"`
	Items      []SaleItem `gorm:"foreignKey:SaleID"        json:"items"`
	Total      float64    `gorm:"not null"                 json:"total"`
	DateTime   string     `gorm:"not null"                 json:"date_time"`
	Timestamp  int64      `gorm:"not null"                 json:"timestamp"`
	SellerID   uint       `json:"seller_id"`
	SellerName string     `json:"seller_name"`
}

// SaleItem snapshots name and price at sale time.
type SaleItem struct {
	ID          uint    `gorm:"primaryKey"     json:"id"`
	SaleID      uint    `gorm:"index;not null" json:"sale_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `gorm:"check:quantity>0" json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type ActivityLog struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    string `gorm:"not null"                 json:"action"`
	Details   string `json:"details"`
	Timestamp int64  `gorm:"not null"                 json:"timestamp"`
	DateTime  string `json:"date_time"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}
