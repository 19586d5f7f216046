package entities

// Card is the payment card presented by the cardholder.
//
// Token is optional and only used by providers that work with tokenized cards
// (Mercado Pago). e.Rede receives the raw card fields.
type Card struct {
	HolderName      string `json:"holder_name"`
	Number          string `json:"number"`
	ExpirationMonth int    `json:"expiration_month"`
	ExpirationYear  int    `json:"expiration_year"`
	SecurityCode    string `json:"security_code"`
	Token           string `json:"token,omitempty"`
}

// Last4 returns the last four digits of the card number, the only part of the
// PAN that may be logged or persisted.
func (c Card) Last4() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return c.Number[len(c.Number)-4:]
}
