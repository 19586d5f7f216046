package erede

import (
	"encoding/base64"
	"fmt"
)

// Credentials identify the merchant to e.Rede. They are set once at gateway
// construction and never logged.
type Credentials struct {
	Affiliation int
	Token       string
}

// AuthHeader returns the value used after "Basic " in the Authorization header.
func (c Credentials) AuthHeader() string {
	return base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%d:%s", c.Affiliation, c.Token)))
}

// String redacts the token.
func (c Credentials) String() string {
	return fmt.Sprintf("affiliation=%d token=***", c.Affiliation)
}

func (c Credentials) GoString() string { return c.String() }
