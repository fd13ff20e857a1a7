package dealers

import "time"

// Dealer: поставщик вместе с основным контактным телефоном.
type Dealer struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	MiddleName  *string   `json:"middle_name,omitempty"`
	LastName    string    `json:"last_name"`
	CountryCode string    `json:"country_code"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
}

// DealerKey: естественный ключ поставщика: ФИО + телефон.
type DealerKey struct {
	FirstName   string  `json:"first_name"`
	MiddleName  *string `json:"middle_name,omitempty"`
	LastName    string  `json:"last_name"`
	CountryCode string  `json:"country_code"`
	PhoneNumber string  `json:"phone_number"`
}

// NewDealer: входные данные регистрации поставщика.
type NewDealer = DealerKey

func (d Dealer) Key() DealerKey {
	return DealerKey{
		FirstName:   d.FirstName,
		MiddleName:  d.MiddleName,
		LastName:    d.LastName,
		CountryCode: d.CountryCode,
		PhoneNumber: d.PhoneNumber,
	}
}

type Address struct {
	ID           int64   `json:"id"`
	HouseNum     *string `json:"house_num,omitempty"`
	StreetName   *string `json:"street_name,omitempty"`
	LocalityName *string `json:"locality_name,omitempty"`
	City         string  `json:"city"`
	District     string  `json:"district"`
	PinCode      string  `json:"pin_code"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
}

type Location struct {
	Address     Address `json:"address"`
	Description *string `json:"description,omitempty"`
}
